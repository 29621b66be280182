// Package webchat exposes the conversation engine over a browser widget.
// The same state machine drives both channels; here interactive menus render
// as option rows instead of WhatsApp buttons and lists.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// Option is a tappable choice rendered under a message.
type Option struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string   `json:"type"` // "message", "session", "pong", "error"
	Text      string   `json:"text,omitempty"`
	Options   []Option `json:"options,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// Handler manages web chat connections and messages.
type Handler struct {
	engine *engine.Engine
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*websocket.Conn // session ID -> active connection
}

// NewHandler creates a web chat handler.
func NewHandler(eng *engine.Engine, logger *logging.Logger) *Handler {
	if eng == nil {
		panic("webchat: engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:   eng,
		logger:   logger,
		sessions: make(map[string]*websocket.Conn),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// userID namespaces webchat sessions away from phone numbers so the two
// channels never share conversation state.
func userID(sessionID string) string {
	return "webchat:" + sessionID
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	h.mu.Lock()
	h.sessions[sessionID] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == conn {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" {
			continue
		}

		for _, out := range h.processMessage(r.Context(), sessionID, msg.Name, msg.Text) {
			_ = websocket.JSON.Send(conn, out)
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, sessionID, name, text string) []OutboundMessage {
	displayName := strings.TrimSpace(name)
	if displayName == "" {
		displayName = "there"
	}
	actions := h.engine.Process(ctx, userID(sessionID), displayName, strings.TrimSpace(text))
	return renderActions(actions)
}

// renderActions flattens engine actions into widget frames. Menus lose
// their button/list distinction in the browser; both become option rows.
func renderActions(actions []engine.Action) []OutboundMessage {
	out := make([]OutboundMessage, 0, len(actions))
	for _, action := range actions {
		switch a := action.(type) {
		case engine.TextAction:
			out = append(out, OutboundMessage{Type: "message", Text: a.Body})

		case engine.ButtonsAction:
			msg := OutboundMessage{Type: "message", Text: a.Body}
			for _, b := range a.Buttons {
				msg.Options = append(msg.Options, Option{ID: b.ID, Title: b.Title})
			}
			out = append(out, msg)

		case engine.ListAction:
			msg := OutboundMessage{Type: "message", Text: a.Body}
			for _, s := range a.Sections {
				for _, r := range s.Rows {
					msg.Options = append(msg.Options, Option{ID: r.ID, Title: r.Title})
				}
			}
			out = append(out, msg)
		}
	}
	return out
}

// HandleMessage is the HTTP fallback for clients without WebSocket support.
// The engine is synchronous, so replies come back in the response body.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Name      string `json:"name"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	replies := h.processMessage(r.Context(), req.SessionID, req.Name, req.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"messages":   replies,
	})
}
