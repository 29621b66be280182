// Package router assembles the HTTP surface: the WhatsApp webhook, the
// webchat widget endpoints, the lead admin API, health and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/xtendafinance/loanbot/internal/http/middleware"
	"github.com/xtendafinance/loanbot/internal/leads"
	"github.com/xtendafinance/loanbot/internal/webchat"
	"github.com/xtendafinance/loanbot/internal/whatsapp"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	WhatsAppHandler *whatsapp.Handler
	WebchatHandler  *webchat.Handler // optional
	LeadsHandler    *leads.Handler
	AdminAuthSecret string
	MetricsHandler  http.Handler
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhook, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.WhatsAppHandler.HealthCheck)
		public.Get("/webhook", cfg.WhatsAppHandler.Verify)
		public.Post("/webhook", cfg.WhatsAppHandler.Receive)

		if cfg.WebchatHandler != nil {
			public.Route("/webchat", func(r chi.Router) {
				r.Get("/ws", cfg.WebchatHandler.HandleWebSocket)
				r.Post("/message", cfg.WebchatHandler.HandleMessage)
			})
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by JWT)
	if cfg.LeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			admin.Get("/leads/{id}", cfg.LeadsHandler.GetLead)
		})
	}

	return r
}
