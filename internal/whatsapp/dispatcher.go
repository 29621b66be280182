package whatsapp

import (
	"context"

	"github.com/xtendafinance/loanbot/internal/catalog"
	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/internal/observability/metrics"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// Dispatcher translates engine actions into gateway sends. Delivery is
// fire-and-forget relative to state progression: failures are logged and
// counted, never retried here and never surfaced to the engine.
type Dispatcher struct {
	gateway Gateway
	metrics *metrics.BotMetrics
	logger  *logging.Logger
}

// NewDispatcher creates an action dispatcher.
func NewDispatcher(gateway Gateway, botMetrics *metrics.BotMetrics, logger *logging.Logger) *Dispatcher {
	if gateway == nil {
		panic("whatsapp: gateway required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		gateway: gateway,
		metrics: botMetrics,
		logger:  logger,
	}
}

// Dispatch delivers each action in order, enforcing channel limits by
// truncation rather than failing.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, actions []engine.Action) {
	for _, action := range actions {
		var kind string
		var err error

		switch a := action.(type) {
		case engine.TextAction:
			kind = "text"
			err = d.gateway.SendText(ctx, userID, a.Body)

		case engine.ButtonsAction:
			kind = "buttons"
			buttons := a.Buttons
			if len(buttons) > engine.MaxButtons {
				d.logger.Warn("truncating buttons to channel limit",
					"user_id", userID, "count", len(buttons), "limit", engine.MaxButtons)
				buttons = buttons[:engine.MaxButtons]
			}
			err = d.gateway.SendButtons(ctx, userID, a.Body, buttons)

		case engine.ListAction:
			kind = "list"
			err = d.gateway.SendList(ctx, userID, a.Body, a.ButtonLabel, truncateRows(a.Sections, engine.MaxListRows))

		default:
			d.logger.Error("unknown action type", "user_id", userID)
			continue
		}

		if err != nil {
			d.metrics.ObserveOutbound(kind, "failed")
			d.logger.Error("failed to deliver action", "error", err, "user_id", userID, "kind", kind)
			continue
		}
		d.metrics.ObserveOutbound(kind, "sent")
	}
}

// truncateRows caps the total row count across sections, dropping whole
// trailing sections once the budget is spent.
func truncateRows(sections []catalog.Section, max int) []catalog.Section {
	total := 0
	out := make([]catalog.Section, 0, len(sections))
	for _, s := range sections {
		if total >= max {
			break
		}
		if total+len(s.Rows) > max {
			s.Rows = s.Rows[:max-total]
		}
		total += len(s.Rows)
		out = append(out, s)
	}
	return out
}
