// Package server implements the server CLI command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	notificationApp "github.com/recurra-io/recurra/internal/application/notification"
	reminderServices "github.com/recurra-io/recurra/internal/application/reminder/services"
	reminderUsecases "github.com/recurra-io/recurra/internal/application/reminder/usecases"
	trackingUsecases "github.com/recurra-io/recurra/internal/application/tracking/usecases"
	"github.com/recurra-io/recurra/internal/infrastructure/auth"
	"github.com/recurra-io/recurra/internal/infrastructure/config"
	"github.com/recurra-io/recurra/internal/infrastructure/database"
	"github.com/recurra-io/recurra/internal/infrastructure/email"
	"github.com/recurra-io/recurra/internal/infrastructure/migration"
	"github.com/recurra-io/recurra/internal/infrastructure/notifier"
	"github.com/recurra-io/recurra/internal/infrastructure/pubsub"
	"github.com/recurra-io/recurra/internal/infrastructure/repository"
	"github.com/recurra-io/recurra/internal/infrastructure/scheduler"
	"github.com/recurra-io/recurra/internal/infrastructure/telegram"
	httpRouter "github.com/recurra-io/recurra/internal/interfaces/http"
	"github.com/recurra-io/recurra/internal/interfaces/http/handlers"
	"github.com/recurra-io/recurra/internal/interfaces/http/middleware"
	"github.com/recurra-io/recurra/internal/shared/db"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

var (
	env         string
	skipMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Recurra HTTP server with the scheduler and notification workers.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Skip running database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "mode", cfg.Server.Mode)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if !skipMigrate {
		if err := migration.Up(database.Get(), cfg.Database.Driver); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Infow("database migrations applied")
	}

	// Infrastructure.
	gdb := database.Get()
	txManager := db.NewTransactionManager(gdb)
	userRepo := repository.NewUserRepository(gdb, log)
	trackingRepo := repository.NewTrackingRepository(gdb, log)
	reminderRepo := repository.NewReminderRepository(gdb, log)

	bus := pubsub.NewUserEventBus(cfg.SSE.QueueDepth, log)

	// Application.
	engine := reminderServices.NewEngine(reminderRepo, trackingRepo, userRepo, txManager, bus, log)

	createTracking := trackingUsecases.NewCreateTrackingUseCase(trackingRepo, userRepo, engine, txManager, log)
	updateTracking := trackingUsecases.NewUpdateTrackingUseCase(trackingRepo, userRepo, engine, log)
	changeState := trackingUsecases.NewChangeTrackingStateUseCase(trackingRepo, reminderRepo, userRepo, engine, txManager, bus, log)
	deleteTracking := trackingUsecases.NewDeleteTrackingUseCase(trackingRepo, txManager, bus, log)
	getTracking := trackingUsecases.NewGetTrackingUseCase(trackingRepo, reminderRepo, log)
	listTrackings := trackingUsecases.NewListTrackingsUseCase(trackingRepo, reminderRepo, log)

	listReminders := reminderUsecases.NewListRemindersUseCase(reminderRepo, log)
	answerReminder := reminderUsecases.NewAnswerReminderUseCase(engine, log)
	snoozeReminder := reminderUsecases.NewSnoozeReminderUseCase(engine, log)
	deleteReminder := reminderUsecases.NewDeleteReminderUseCase(engine, log)

	// Outbound notification channels.
	emailService := email.NewSMTPEmailService(cfg.Email)
	botService := telegram.NewBotService(cfg.Telegram)
	dispatcher := notifier.NewDispatcher(
		cfg.Notifier,
		notifier.NewEmailSender(emailService),
		notifier.NewTelegramSender(botService),
		log,
	)
	dispatcher.Start()

	var tickDispatcher notificationApp.Dispatcher = dispatcher
	promoteDue := reminderUsecases.NewPromoteDueUseCase(reminderRepo, engine, txManager, tickDispatcher, log)

	// Scheduler tick loop.
	schedulerManager, err := scheduler.NewManager(cfg.Scheduler, log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := schedulerManager.RegisterReminderTick(promoteDue); err != nil {
		return fmt.Errorf("failed to register reminder tick: %w", err)
	}
	schedulerManager.Start()

	// Telegram long polling, only when a bot token is configured.
	var pollingService *telegram.PollingService
	if botService.Enabled() && cfg.Telegram.PollingEnabled {
		updateHandler := telegram.NewReminderUpdateHandler(userRepo, engine, botService, bus, log)
		pollingService = telegram.NewPollingService(botService, updateHandler, cfg.Telegram.PollingTimeout, log)
		pollingService.Start()
	}

	// HTTP surface.
	jwtService := auth.NewJWTService(cfg.Auth.JWT)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	router := httpRouter.NewRouter(&httpRouter.Dependencies{
		Config:          cfg,
		TrackingHandler: handlers.NewTrackingHandler(createTracking, updateTracking, changeState, deleteTracking, getTracking, listTrackings, log),
		ReminderHandler: handlers.NewReminderHandler(listReminders, answerReminder, snoozeReminder, deleteReminder, log),
		EventsHandler:   handlers.NewEventsHandler(bus, time.Duration(cfg.SSE.HeartbeatSeconds)*time.Second, log),
		HealthHandler:   handlers.NewHealthHandler(),
		AuthMiddleware:  authMiddleware,
		Logger:          log,
	})
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	// Drain in dependency order: stop producing new work, close the bus so
	// live SSE streams return and cannot pin the HTTP drain, then shut the
	// server down and flush the outbound queue.
	if err := schedulerManager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}
	if pollingService != nil {
		pollingService.Stop()
	}
	bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	dispatcher.Stop(time.Duration(cfg.Scheduler.ShutdownGraceSeconds) * time.Second)

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
