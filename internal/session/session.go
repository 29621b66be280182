// Package session owns the per-user conversation state. Sessions are
// process-local and non-durable: a restart drops every in-flight
// conversation, which is acceptable because any user can re-enter the flow
// by greeting the bot again.
package session

import "sync"

// State is the conversation position for one user.
type State string

const (
	StateIdle                     State = "idle"
	StateAwaitingLoanType         State = "awaiting_loan_type"
	StateAwaitingAmount           State = "awaiting_amount"
	StateAwaitingEmployment       State = "awaiting_employment"
	StateAwaitingName             State = "awaiting_name"
	StateAwaitingCallbackTime     State = "awaiting_callback_time"
	StateAwaitingCallbackName     State = "awaiting_callback_name"
	StateAwaitingCallbackTimeOnly State = "awaiting_callback_time_only"
	StateAIMode                   State = "ai_mode"
)

// Valid reports whether the state is a member of the closed state set.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingLoanType, StateAwaitingAmount,
		StateAwaitingEmployment, StateAwaitingName, StateAwaitingCallbackTime,
		StateAwaitingCallbackName, StateAwaitingCallbackTimeOnly, StateAIMode:
		return true
	}
	return false
}

// Lead is the inquiry record accumulated across a flow. Fields are written
// incrementally by the engine and never cleared until the session resets.
type Lead struct {
	LoanType     string
	LoanAmount   string
	Employment   string
	Name         string
	Phone        string
	CallbackTime string
}

// Session is one user's conversation state plus their in-progress lead.
type Session struct {
	UserID      string
	DisplayName string
	State       State
	Lead        Lead
}

// Restart clears the session back to idle with an empty lead, keeping the
// same record in place so concurrent steppers always see the latest state.
func (s *Session) Restart(displayName string) {
	s.DisplayName = displayName
	s.State = StateIdle
	s.Lead = Lead{}
}

func newSession(userID, displayName string) *Session {
	return &Session{
		UserID:      userID,
		DisplayName: displayName,
		State:       StateIdle,
	}
}

// Store holds one session per user identity. Steps for the same identity are
// strictly serialized through a per-user lock; steps for distinct identities
// run concurrently.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) entryFor(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{}
		s.entries[userID] = e
	}
	return e
}

// GetOrCreate returns the existing session for userID, creating an idle one
// on first contact. Always succeeds.
func (s *Store) GetOrCreate(userID, displayName string) *Session {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		e.session = newSession(userID, displayName)
	}
	return e.session
}

// Reset unconditionally replaces any existing session with a fresh idle one.
func (s *Store) Reset(userID, displayName string) *Session {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = newSession(userID, displayName)
	return e.session
}

// Step runs fn with exclusive ownership of the user's session for the
// duration of one processing step. The session is created on first contact.
// fn must not retain the session past its return.
func (s *Store) Step(userID, displayName string, fn func(sess *Session)) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		e.session = newSession(userID, displayName)
	}
	fn(e.session)
}

// Len reports the number of tracked identities. Used by metrics and tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
