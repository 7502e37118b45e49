package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/avilov/taskboard/internal/auth"
	"github.com/avilov/taskboard/internal/config"
	"github.com/avilov/taskboard/internal/handler"
	"github.com/avilov/taskboard/internal/repo"
	"github.com/avilov/taskboard/internal/service"
	"github.com/avilov/taskboard/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Репозитории и сервисы
	taskRepo := repo.NewTaskRepo(pool)
	boardRepo := repo.NewBoardRepo(pool)
	templateRepo := repo.NewTemplateRepo(pool)
	colorRepo := repo.NewColorRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	taskService := service.NewTaskService(taskRepo, boardRepo)
	boardService := service.NewBoardService(boardRepo, templateRepo)
	userService := service.NewUserService(userRepo)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	taskHandler := handler.NewTaskHandler(taskService, logger)
	boardHandler := handler.NewBoardHandler(boardService, logger)
	authHandler := handler.NewAuthHandler(userService, tokens, logger)
	metaHandler := handler.NewMetaHandler(templateRepo, colorRepo, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.Routes)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware)
			r.Route("/boards", boardHandler.Routes)
			r.Route("/tasks", taskHandler.Routes)
			metaHandler.Routes(r)
		})
	})

	// Фоновое уплотнение порядков
	compactor := worker.NewPool(pool, logger, cfg.WorkerCount, cfg.CompactEvery)
	compactor.Start(context.Background())
	defer compactor.Stop()

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
