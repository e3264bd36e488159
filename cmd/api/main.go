package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-assistant/config"
	_ "personal-assistant/docs" // Swagger docs
	chatHTTP "personal-assistant/internal/assistant/delivery/http"
	tgDelivery "personal-assistant/internal/assistant/delivery/telegram"
	assistantUC "personal-assistant/internal/assistant/usecase"
	"personal-assistant/internal/httpserver"
	intentUC "personal-assistant/internal/intent/usecase"
	"personal-assistant/internal/middleware"
	"personal-assistant/internal/repository/postgre"
	"personal-assistant/internal/scheduler"
	sessionUC "personal-assistant/internal/session/usecase"
	"personal-assistant/pkg/currency"
	"personal-assistant/pkg/gcalendar"
	"personal-assistant/pkg/llmprovider"
	"personal-assistant/pkg/log"
	"personal-assistant/pkg/postgres"
	"personal-assistant/pkg/telegram"
	"personal-assistant/pkg/weather"
)

const shutdownTimeout = 20 * time.Second

// @title       Personal Assistant API
// @description Conversational assistant for notes, tasks, events, reminders and expenses.
// @version     1
// @host        localhost:8080
// @schemes     http
// @BasePath    /
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Personal Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error(ctx, "Failed to connect to Postgres: ", err)
		return
	}
	defer db.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgre.Migrate(ctx, db); err != nil {
			logger.Error(ctx, "Failed to migrate schema: ", err)
			return
		}
		logger.Info(ctx, "✅ Schema migrated")
	}
	repo := postgre.New(db, logger)

	// 4. LLM
	llm, err := llmprovider.NewManagerFromConfig(ctx, &cfg.LLM, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}

	// 5. Optional collaborators
	opts := assistantUC.Options{
		CalendarID:      cfg.GoogleCalendar.CalendarID,
		RecentSize:      cfg.Assistant.RecentWindowSize,
		DefaultTimezone: cfg.Assistant.DefaultTimezone,
	}

	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "→ Run `go run ./scripts/gcal-auth` to generate the OAuth token")
		} else {
			opts.Calendar = calendarClient
			logger.Info(ctx, "✅ Google Calendar initialized")
		}
	}

	weatherClient, wErr := weather.New(weather.Config{APIKey: cfg.Weather.APIKey, BaseURL: cfg.Weather.BaseURL})
	if wErr != nil {
		logger.Warnf(ctx, "Weather not available (optional): %v", wErr)
	} else {
		opts.Weather = weatherClient
	}

	opts.Currency = currency.New(currency.Config{URL: cfg.Currency.BaseURL, CacheTTL: cfg.Currency.CacheTTL})

	// 6. Assistant domain
	sessions := sessionUC.New(logger, repo, llm)
	extractor := intentUC.New(logger, llm)
	assistant := assistantUC.New(logger, repo, sessions, extractor, opts)

	mw := middleware.New(logger, cfg.RateLimit.RequestsPerMin)

	srvCfg := httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: shutdownTimeout,
		Middleware:      mw,
		Readiness:       db.PingContext,
		ChatHandler:     chatHTTP.New(logger, assistant),
	}

	// 7. Telegram channel and notification jobs
	var (
		telegramHandler tgDelivery.Handler
		runner          *scheduler.Runner
	)

	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, assistant, bot, cfg.Telegram.WebhookSecret, mw.Limiter())
		srvCfg.TelegramHandler = telegramHandler

		if webhookURL := resolveWebhookURL(ctx, logger, cfg.Telegram); webhookURL != "" {
			if whErr := bot.SetWebhook(ctx, webhookURL, cfg.Telegram.WebhookSecret); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
			}
		}

		if cfg.Scheduler.Enabled {
			runner, err = newRunner(logger, cfg.Scheduler, repo, sessions, bot)
			if err != nil {
				logger.Error(ctx, "Failed to configure scheduler: ", err)
				return
			}
		}
	} else {
		logger.Warn(ctx, "Telegram skipped: TELEGRAM_BOT_TOKEN is missing, reminders and digests are disabled")
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if runner != nil {
		runner.Start(ctx)
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	// 10. Drain background work
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if runner != nil {
		if err := runner.Stop(drainCtx); err != nil {
			logger.Warnf(drainCtx, "Scheduler did not stop cleanly: %v", err)
		}
	}
	if telegramHandler != nil {
		telegramHandler.Wait()
	}
	sessions.Wait()

	logger.Info(drainCtx, "Server stopped gracefully")
}

// newRunner registers the reminder, digest and session cleanup jobs.
func newRunner(l log.Logger, cfg config.SchedulerConfig, repo jobStore, sessions scheduler.SessionCleaner, bot scheduler.Sender) (*scheduler.Runner, error) {
	runner := scheduler.NewRunner(l)

	if err := runner.Every(cfg.ReminderInterval, scheduler.NewReminderJob(l, repo, bot)); err != nil {
		return nil, err
	}
	if err := runner.Every(cfg.DigestInterval, scheduler.NewDigestJob(l, repo, bot, cfg.DigestTolerance)); err != nil {
		return nil, err
	}
	if err := runner.Cron("@daily", scheduler.NewCleanupJob(sessions, cfg.SessionRetention)); err != nil {
		return nil, err
	}
	return runner, nil
}

type jobStore interface {
	scheduler.ReminderStore
	scheduler.DigestStore
}
