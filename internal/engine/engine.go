// Package engine implements the conversation state machine for the Xtenda
// Finance WhatsApp bot. Rules drive menus and structured flows; an answering
// service handles open questions. The engine decides transitions and returns
// the outbound actions; dispatchers deliver them.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/xtendafinance/loanbot/internal/catalog"
	"github.com/xtendafinance/loanbot/internal/leads"
	"github.com/xtendafinance/loanbot/internal/observability/metrics"
	"github.com/xtendafinance/loanbot/internal/session"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// minQuestionLength is the idle-state heuristic carried over from the
// original flow: unrecognized input longer than this is treated as a
// question for the answering service instead of a mis-tap. Tunable.
const minQuestionLength = 5

// defaultLoanType fills the loan type on callback-only leads.
const defaultLoanType = "General Inquiry"

// fieldPending marks lead fields the callback-only flow never collects.
const fieldPending = "TBD"

// Answerer produces a natural-language answer for open-ended questions.
// Implementations should return fallback copy rather than failing hard;
// the engine substitutes its own fallback when an error does surface.
type Answerer interface {
	Answer(ctx context.Context, userID, question string) (string, error)
}

// LeadSaver persists a completed lead. Satisfied by leads.Repository.
type LeadSaver interface {
	Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error)
}

// Config wires the engine's collaborators.
type Config struct {
	Sessions  *session.Store
	Saver     LeadSaver
	Answerer  Answerer
	Directory catalog.Directory // optional consultant routing
	Source    string            // channel tag recorded on saved leads
	Metrics   *metrics.BotMetrics
	Logger    *logging.Logger
}

// Engine routes each inbound message to the next conversation step.
type Engine struct {
	sessions  *session.Store
	saver     LeadSaver
	answerer  Answerer
	directory catalog.Directory
	source    string
	metrics   *metrics.BotMetrics
	logger    *logging.Logger
}

// New creates a conversation engine.
func New(cfg Config) *Engine {
	if cfg.Sessions == nil {
		panic("engine: session store required")
	}
	if cfg.Saver == nil {
		panic("engine: lead saver required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Source == "" {
		cfg.Source = "whatsapp"
	}
	return &Engine{
		sessions:  cfg.Sessions,
		saver:     cfg.Saver,
		answerer:  cfg.Answerer,
		directory: cfg.Directory,
		source:    cfg.Source,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
}

// Process runs one conversation step for a normalized inbound message and
// returns the outbound actions in delivery order. Steps for the same user
// are serialized by the session store.
func (e *Engine) Process(ctx context.Context, userID, displayName, input string) []Action {
	var actions []Action
	e.sessions.Step(userID, displayName, func(sess *session.Session) {
		actions = e.step(ctx, sess, input)
	})
	return actions
}

func (e *Engine) step(ctx context.Context, sess *session.Session, input string) []Action {
	text := strings.ToLower(strings.TrimSpace(input))

	// Global escape: greetings and menu keywords reset any state.
	if catalog.IsMenuKeyword(text) || input == catalog.MenuMain {
		sess.Restart(sess.DisplayName)
		return []Action{mainMenu(sess.DisplayName)}
	}

	switch sess.State {
	case session.StateIdle:
		return e.stepIdle(ctx, sess, input)

	case session.StateAwaitingLoanType:
		if name, ok := catalog.LoanTypeNames[input]; ok {
			sess.Lead.LoanType = name
			sess.State = session.StateAwaitingAmount
			return []Action{TextAction{Body: askAmountPrompt}}
		}
		return []Action{loanTypeSelection()}

	case session.StateAwaitingAmount:
		amount, ok := ParseAmount(input)
		if !ok {
			return []Action{TextAction{Body: invalidAmountPrompt}}
		}
		sess.Lead.LoanAmount = FormatAmount(amount)
		sess.State = session.StateAwaitingEmployment
		return []Action{employmentSelection()}

	case session.StateAwaitingEmployment:
		if label, ok := catalog.EmploymentLabels[input]; ok {
			sess.Lead.Employment = label
			sess.State = session.StateAwaitingName
			return []Action{TextAction{Body: askNamePrompt}}
		}
		return []Action{employmentSelection()}

	case session.StateAwaitingName:
		// Media messages normalize to empty input; re-ask instead of
		// capturing an unnameable lead.
		name := strings.TrimSpace(input)
		if name == "" {
			return []Action{TextAction{Body: askNamePrompt}}
		}
		sess.Lead.Name = name
		sess.Lead.Phone = sess.UserID
		sess.State = session.StateAwaitingCallbackTime
		return []Action{callbackTimeSelection()}

	case session.StateAwaitingCallbackTime:
		if label, ok := catalog.CallbackTimeLabels[input]; ok {
			sess.Lead.CallbackTime = label
			return e.complete(ctx, sess)
		}
		return []Action{callbackTimeSelection()}

	case session.StateAwaitingCallbackName:
		name := strings.TrimSpace(input)
		if name == "" {
			return []Action{TextAction{Body: callbackIntroPrompt}}
		}
		sess.Lead.Name = name
		sess.Lead.Phone = sess.UserID
		sess.State = session.StateAwaitingCallbackTimeOnly
		return []Action{callbackTimeSelection()}

	case session.StateAwaitingCallbackTimeOnly:
		if label, ok := catalog.CallbackTimeLabels[input]; ok {
			sess.Lead.CallbackTime = label
			if sess.Lead.LoanType == "" {
				sess.Lead.LoanType = defaultLoanType
			}
			sess.Lead.LoanAmount = fieldPending
			sess.Lead.Employment = fieldPending
			return e.complete(ctx, sess)
		}
		return []Action{callbackTimeSelection()}

	case session.StateAIMode:
		return e.answer(ctx, sess, input)

	default:
		// Unknown state, reset defensively.
		e.logger.Warn("unknown session state, resetting", "user_id", sess.UserID, "state", sess.State)
		sess.Restart(sess.DisplayName)
		return []Action{mainMenu(sess.DisplayName)}
	}
}

func (e *Engine) stepIdle(ctx context.Context, sess *session.Session, input string) []Action {
	// First message from a new user, or an empty interactive payload.
	if input == "" {
		return []Action{mainMenu(sess.DisplayName)}
	}

	switch {
	case input == catalog.MenuProducts:
		return []Action{productMenu()}

	case catalog.ProductInfo[input] != "":
		return []Action{TextAction{Body: catalog.ProductInfo[input]}, backPrompt()}

	case input == catalog.MenuEligibility:
		return []Action{TextAction{Body: catalog.EligibilityText}, backPrompt()}

	case input == catalog.MenuApply:
		sess.State = session.StateAwaitingLoanType
		return []Action{loanTypeSelection()}

	case input == catalog.MenuCallback:
		sess.State = session.StateAwaitingCallbackName
		return []Action{TextAction{Body: callbackIntroPrompt}}

	case input == catalog.MenuAI:
		sess.State = session.StateAIMode
		return []Action{TextAction{Body: aiIntroPrompt}}
	}

	// A loan-type selector tapped from an old message skips straight into
	// the apply flow.
	if _, ok := catalog.LoanTypeNames[input]; ok {
		sess.State = session.StateAwaitingLoanType
		return []Action{loanTypeSelection()}
	}

	if len(input) > minQuestionLength {
		sess.State = session.StateAIMode
		return e.answer(ctx, sess, input)
	}
	return []Action{mainMenu(sess.DisplayName)}
}

func (e *Engine) answer(ctx context.Context, sess *session.Session, input string) []Action {
	reply := answerFallback
	if e.answerer != nil {
		start := time.Now()
		resp, err := e.answerer.Answer(ctx, sess.UserID, input)
		e.metrics.ObserveAnswerLatency(time.Since(start).Seconds())
		if err != nil {
			e.logger.Error("answering service failed", "error", err, "user_id", sess.UserID)
		} else if strings.TrimSpace(resp) != "" {
			reply = resp
		}
	}
	return []Action{TextAction{Body: reply}, TextAction{Body: menuHintPrompt}}
}

// complete runs the terminal step: persist the lead, confirm to the user and
// reset the session. Persistence failure degrades to a notice, never an error.
func (e *Engine) complete(ctx context.Context, sess *session.Session) []Action {
	lead := sess.Lead
	reference := ReferenceCode(sess.UserID)

	req := &leads.CreateLeadRequest{
		Name:         lead.Name,
		Phone:        lead.Phone,
		LoanType:     lead.LoanType,
		LoanAmount:   lead.LoanAmount,
		Employment:   lead.Employment,
		CallbackTime: lead.CallbackTime,
		Reference:    reference,
		Source:       e.source,
	}
	if e.directory != nil {
		if consultant, ok := e.directory.Assign(); ok {
			req.Consultant = consultant.Name
		}
	}

	saved := true
	if _, err := e.saver.Create(ctx, req); err != nil {
		saved = false
		e.metrics.ObserveLeadSaved("failed")
		e.logger.Error("failed to save lead", "error", err, "user_id", sess.UserID, "reference", reference)
	} else {
		e.metrics.ObserveLeadSaved("ok")
		e.logger.Info("lead saved",
			"user_id", sess.UserID,
			"loan_type", lead.LoanType,
			"callback", lead.CallbackTime,
			"reference", reference,
		)
	}

	name := lead.Name
	if name == "" {
		name = sess.DisplayName
	}
	actions := []Action{confirmation(name, lead.LoanType, lead.LoanAmount, lead.CallbackTime, reference)}
	if !saved {
		actions = append(actions, TextAction{Body: degradedNotice})
	}

	sess.Restart(sess.DisplayName)
	return actions
}

// ReferenceCode derives a deterministic reference from the tail of the
// user's phone number, e.g. "260971234567" -> "#XF4567".
func ReferenceCode(userID string) string {
	tail := userID
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return "#XF" + strings.ToUpper(tail)
}
