package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xtendafinance/loanbot/internal/ai"
	"github.com/xtendafinance/loanbot/internal/api/router"
	"github.com/xtendafinance/loanbot/internal/catalog"
	appconfig "github.com/xtendafinance/loanbot/internal/config"
	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/internal/leads"
	"github.com/xtendafinance/loanbot/internal/notify"
	"github.com/xtendafinance/loanbot/internal/observability/metrics"
	"github.com/xtendafinance/loanbot/internal/session"
	"github.com/xtendafinance/loanbot/internal/webchat"
	"github.com/xtendafinance/loanbot/internal/whatsapp"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting loanbot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	botMetrics := metrics.NewBotMetrics(nil)

	// Lead storage: Postgres when configured, in-memory otherwise.
	var leadsRepo leads.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres lead repository")
	} else {
		leadsRepo = leads.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, leads stored in memory only")
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else if cfg.SalesInboxEmail != "" {
		// Without SendGrid credentials the notification path still runs,
		// logging what would have been mailed.
		emailSender = notify.NewStubEmailSender(logger)
	}
	var saver engine.LeadSaver = leadsRepo
	if cfg.SalesInboxEmail != "" {
		saver = notify.NewNotifyingSaver(leadsRepo, emailSender, cfg.SalesInboxEmail, logger)
	}

	answerer := buildAnswerer(ctx, cfg, logger)
	var directory catalog.Directory = catalog.StaticDirectory{}

	eng := engine.New(engine.Config{
		Sessions:  session.NewStore(),
		Saver:     saver,
		Answerer:  answerer,
		Directory: directory,
		Source:    "whatsapp",
		Metrics:   botMetrics,
		Logger:    logger,
	})

	gateway := whatsapp.NewClient(
		cfg.WhatsAppAPIBaseURL,
		cfg.WhatsAppPhoneID,
		cfg.WhatsAppAccessToken,
		cfg.WhatsAppSendTimeout,
		logger,
	)
	dispatcher := whatsapp.NewDispatcher(gateway, botMetrics, logger)
	whatsappHandler := whatsapp.NewHandler(cfg.WhatsAppVerifyToken, eng, dispatcher, botMetrics, logger)

	var webchatHandler *webchat.Handler
	if cfg.WebchatEnabled {
		// The web widget gets its own session store so browser visitors and
		// WhatsApp numbers never collide, but shares the saver and answerer.
		webchatEngine := engine.New(engine.Config{
			Sessions:  session.NewStore(),
			Saver:     saver,
			Answerer:  answerer,
			Directory: directory,
			Source:    "webchat",
			Metrics:   botMetrics,
			Logger:    logger,
		})
		webchatHandler = webchat.NewHandler(webchatEngine, logger)
	}

	r := router.New(&router.Config{
		Logger:          logger,
		WhatsAppHandler: whatsappHandler,
		WebchatHandler:  webchatHandler,
		LeadsHandler:    leads.NewHandler(leadsRepo, logger),
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildAnswerer picks the answering backend from configuration. "auto" uses
// Bedrock when a model is configured with Gemini as fallback, else whichever
// single provider has credentials. Returns nil when neither is configured;
// the engine then falls back to canned copy.
func buildAnswerer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) engine.Answerer {
	maxTokens := int32(cfg.AnswerMaxTokens)

	newGemini := func() engine.Answerer {
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		client, err := ai.NewGeminiAnswerer(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, maxTokens)
		if err != nil {
			logger.Error("failed to create gemini answerer", "error", err)
			return nil
		}
		return client
	}
	newBedrock := func() engine.Answerer {
		if cfg.BedrockModelID == "" {
			return nil
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		client, err := ai.NewBedrockAnswerer(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID, maxTokens)
		if err != nil {
			logger.Error("failed to create bedrock answerer", "error", err)
			return nil
		}
		return client
	}

	switch cfg.AIProvider {
	case appconfig.AIProviderGemini:
		return newGemini()
	case appconfig.AIProviderBedrock:
		return newBedrock()
	default:
		primary := newBedrock()
		fallback := newGemini()
		switch {
		case primary != nil && fallback != nil:
			logger.Info("answering service: bedrock with gemini fallback")
			return ai.NewFallbackAnswerer(primary, fallback, logger)
		case primary != nil:
			logger.Info("answering service: bedrock")
			return primary
		case fallback != nil:
			logger.Info("answering service: gemini")
			return fallback
		}
		logger.Warn("no answering service configured, using canned replies")
		return nil
	}
}
