package app

import (
	"context"
	"fmt"
	"net/http"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/repository/postgres"
	taskinmemory "taskManager/internal/repository/task/inmemory"
	taskpostgres "taskManager/internal/repository/task/postgres"
	userinmemory "taskManager/internal/repository/user/inmemory"
	userpostgres "taskManager/internal/repository/user/postgres"
	"taskManager/internal/service"
	"taskManager/internal/session"
	"taskManager/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	janitor   *worker.SessionJanitor
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var taskRepo service.TaskRepository
	var userRepo service.UserRepository

	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		pool, err := postgres.Connect(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие соединений PostgreSQL...")
			pool.Close()
		})

		taskRepo = taskpostgres.New(pool)
		userRepo = userpostgres.New(pool)

	case "inmemory":
		taskRepo = taskinmemory.NewTaskStorage()
		userRepo = userinmemory.NewUserStorage()

	default:
		return fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}

	sessions := session.NewInMemoryStore(a.config.Session.TTL)
	a.janitor = worker.NewSessionJanitor(sessions, &a.config.Session.CleanupInterval)

	taskService := service.NewTaskService(taskRepo, userRepo)
	userService := service.NewUserService(userRepo)
	statsService := service.NewStatsService(taskRepo, userRepo)

	taskHandler := handlers.NewTaskHandler(&taskService)
	userHandler := handlers.NewUserHandler(&userService)
	statsHandler := handlers.NewStatsHandler(&statsService)
	authHandler := handlers.NewAuthHandler(&userService, sessions)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(a.config.RateLimit.RPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{a.config.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Post("/auth/login", authHandler.Login)
	r.Get("/health", taskHandler.HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(sessions, userRepo))

		r.Get("/auth/session", authHandler.Session)
		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/tasks", taskHandler.GetTasks)
		r.Put("/tasks/status", taskHandler.UpdateStatus)

		r.Get("/stats/user", statsHandler.User)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/tasks", taskHandler.PostTask)
			r.Get("/users", userHandler.GetUsers)
			r.Post("/users", userHandler.PostUser)
			r.Get("/stats/global", statsHandler.Global)
		})
	})

	a.server = &http.Server{
		Addr:    a.config.ServerAddr(),
		Handler: otelhttp.NewHandler(r, "task-manager"),
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	go a.janitor.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
