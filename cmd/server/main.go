package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"journalmate/internal/cache"
	"journalmate/internal/config"
	"journalmate/internal/db"
	"journalmate/internal/handlers"
	"journalmate/internal/logging"
	mw "journalmate/internal/middleware"
	"journalmate/internal/notify"
	"journalmate/internal/scheduler"
	"journalmate/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open db", zap.Error(err))
		os.Exit(1)
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Error("failed to ping db", zap.Error(err))
		os.Exit(1)
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Error("failed migrations", zap.Error(err))
		os.Exit(1)
	}

	// Redis is optional; without it caching is a no-op.
	var c *cache.Cache
	if cfg.RedisAddr != "" {
		c, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warn("continuing without cache", zap.Error(err))
			c = nil
		}
	}

	// NATS is optional; without it reminder events are only logged.
	var notifier notify.Notifier
	if cfg.NATSURL != "" {
		notifier, err = notify.NewNATSNotifier(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn("continuing with noop notifier", zap.Error(err))
			notifier = notify.NewNoopNotifier(logger)
		}
	} else {
		notifier = notify.NewNoopNotifier(logger)
	}

	// Journal reflections are encrypted at rest when a key is configured.
	var encSvc *services.EncryptionService
	if cfg.EncryptionKey != "" {
		encSvc, err = services.NewEncryptionService([]byte(cfg.EncryptionKey))
		if err != nil {
			logger.Error("failed to init encryption", zap.Error(err))
			os.Exit(1)
		}
	}

	sched := scheduler.New(dbConn, notifier, logger)
	if err := sched.Start(cfg.ReminderSweepInterval, cfg.SuggestionInterval); err != nil {
		logger.Error("failed to start scheduler", zap.Error(err))
		os.Exit(1)
	}

	mw.RegisterMetrics()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.Metrics)

	authHandler := handlers.NewAuthHandler(dbConn, []byte(cfg.JWTSecret))
	userHandler := handlers.NewUserHandler(dbConn)
	goalHandler := handlers.NewGoalHandler(dbConn, c)
	taskHandler := handlers.NewTaskHandler(dbConn, c, logger)
	journalHandler := handlers.NewJournalHandler(dbConn, encSvc, logger)
	progressHandler := handlers.NewProgressHandler(dbConn, c)
	dashboardHandler := handlers.NewDashboardHandler(dbConn)
	chatImportHandler := handlers.NewChatImportHandler(dbConn)
	groupHandler := handlers.NewGroupHandler(dbConn)
	sharedHandler := handlers.NewSharedHandler(dbConn, groupHandler)
	communityHandler := handlers.NewCommunityHandler(dbConn, c)
	notificationHandler := handlers.NewNotificationHandler(dbConn)
	reminderHandler := handlers.NewReminderHandler(dbConn)
	suggestionHandler := handlers.NewSuggestionHandler(dbConn)
	adminHandler := handlers.NewAdminHandler(dbConn, logger)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)

		api.Get("/community/plans", communityHandler.ListPlans)
		api.Get("/community/plans/{slug}", communityHandler.GetPlan)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)

			pr.Get("/users/me", userHandler.GetMe)
			pr.Patch("/users/me", userHandler.UpdateMe)

			pr.Post("/goals", goalHandler.Create)
			pr.Get("/goals", goalHandler.List)
			pr.Get("/goals/{goalID}", goalHandler.Get)
			pr.Patch("/goals/{goalID}", goalHandler.Update)
			pr.Delete("/goals/{goalID}", goalHandler.Delete)
			pr.Post("/goals/{goalID}/publish", goalHandler.Publish)
			pr.Post("/goals/{goalID}/unpublish", goalHandler.Unpublish)

			pr.Post("/goals/{goalID}/tasks", taskHandler.Create)
			pr.Get("/goals/{goalID}/tasks", taskHandler.ListByGoal)
			pr.Patch("/tasks/{taskID}", taskHandler.Update)
			pr.Delete("/tasks/{taskID}", taskHandler.Delete)
			pr.Post("/tasks/{taskID}/complete", taskHandler.Complete)
			pr.Post("/tasks/{taskID}/reopen", taskHandler.Reopen)

			pr.Post("/journal", journalHandler.UpsertEntry)
			pr.Get("/journal", journalHandler.List)
			pr.Delete("/journal", journalHandler.Delete)

			pr.Get("/progress/summary", progressHandler.GetSummary)
			pr.Get("/progress/daily", progressHandler.GetDaily)
			pr.Get("/dashboard", dashboardHandler.Get)

			pr.Post("/chat-imports", chatImportHandler.Create)
			pr.Get("/chat-imports", chatImportHandler.List)
			pr.Get("/chat-imports/{importID}", chatImportHandler.Get)
			pr.Delete("/chat-imports/{importID}", chatImportHandler.Delete)
			pr.Post("/chat-imports/{importID}/convert", chatImportHandler.Convert)

			pr.Post("/groups", groupHandler.Create)
			pr.Get("/groups", groupHandler.List)
			pr.Post("/groups/join", groupHandler.Join)
			pr.Get("/groups/{groupID}", groupHandler.Get)
			pr.Get("/groups/{groupID}/members", groupHandler.ListMembers)
			pr.Patch("/groups/{groupID}/members/{memberID}", groupHandler.UpdateMemberRole)
			pr.Delete("/groups/{groupID}/members/{memberID}", groupHandler.RemoveMember)

			pr.Post("/groups/{groupID}/goals", sharedHandler.CreateGoal)
			pr.Get("/groups/{groupID}/goals", sharedHandler.ListGoals)
			pr.Post("/groups/{groupID}/goals/{sharedGoalID}/tasks", sharedHandler.CreateTask)
			pr.Get("/groups/{groupID}/goals/{sharedGoalID}/tasks", sharedHandler.ListTasks)
			pr.Patch("/groups/{groupID}/tasks/{taskID}", sharedHandler.UpdateTask)
			pr.Delete("/groups/{groupID}/tasks/{taskID}", sharedHandler.DeleteTask)

			pr.Get("/notifications/preferences", notificationHandler.GetPreferences)
			pr.Put("/notifications/preferences", notificationHandler.UpsertPreferences)

			pr.Post("/tasks/{taskID}/reminders", reminderHandler.Create)
			pr.Get("/reminders", reminderHandler.List)
			pr.Delete("/reminders/{reminderID}", reminderHandler.Delete)

			pr.Get("/suggestions", suggestionHandler.List)
			pr.Post("/suggestions/generate", suggestionHandler.Generate)
			pr.Post("/suggestions/{suggestionID}/accept", suggestionHandler.Accept)

			pr.Get("/admin/overview", adminHandler.Overview)
			pr.Post("/admin/recompute-stats", adminHandler.RecomputeStats)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")

	sched.Stop()
	notifier.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = c.Close()
	logger.Info("server stopped")
}
