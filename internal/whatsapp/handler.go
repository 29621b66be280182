package whatsapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/internal/observability/metrics"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

var webhookTracer = otel.Tracer("loanbot.internal.whatsapp.webhook")

// Handler handles Cloud API webhook requests.
type Handler struct {
	verifyToken string
	engine      *engine.Engine
	dispatcher  *Dispatcher
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
}

// NewHandler creates the webhook handler.
func NewHandler(verifyToken string, eng *engine.Engine, dispatcher *Dispatcher, botMetrics *metrics.BotMetrics, logger *logging.Logger) *Handler {
	if eng == nil {
		panic("whatsapp: engine cannot be nil")
	}
	if dispatcher == nil {
		panic("whatsapp: dispatcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifyToken: verifyToken,
		engine:      eng,
		dispatcher:  dispatcher,
		metrics:     botMetrics,
		logger:      logger,
	}
}

// Verify handles GET /webhook, the subscription handshake Meta performs
// when the webhook URL is configured.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	h.logger.Warn("webhook verification rejected", "mode", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Receive handles POST /webhook: normalize the inbound message, run one
// engine step and dispatch the resulting actions. Always acknowledges with
// 200 so Meta does not redeliver.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "whatsapp.webhook.receive")
	defer span.End()

	inbound, err := ParseWebhook(r.Body)
	if err != nil {
		if !errors.Is(err, ErrNoMessage) {
			h.metrics.ObserveInbound("unknown", "parse_error")
			h.logger.Error("failed to parse webhook", "error", err)
		}
		h.writeAck(w)
		return
	}

	span.SetAttributes(
		attribute.String("loanbot.user_id", inbound.UserID),
		attribute.String("loanbot.kind", inbound.Kind),
	)
	h.metrics.ObserveInbound(inbound.Kind, "ok")
	h.logger.Info("inbound message",
		"user_id", inbound.UserID,
		"name", inbound.DisplayName,
		"kind", inbound.Kind,
		"length", len(inbound.Input),
	)

	actions := h.engine.Process(ctx, inbound.UserID, inbound.DisplayName, inbound.Input)
	h.dispatcher.Dispatch(ctx, inbound.UserID, actions)

	h.writeAck(w)
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (h *Handler) writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
