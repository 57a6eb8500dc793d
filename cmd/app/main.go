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

	"github.com/BuzzLyutic/taskflow-api/internal/auth"
	"github.com/BuzzLyutic/taskflow-api/internal/blob"
	"github.com/BuzzLyutic/taskflow-api/internal/config"
	"github.com/BuzzLyutic/taskflow-api/internal/handler"
	"github.com/BuzzLyutic/taskflow-api/internal/notify"
	"github.com/BuzzLyutic/taskflow-api/internal/repo"
	"github.com/BuzzLyutic/taskflow-api/internal/service"
	"github.com/BuzzLyutic/taskflow-api/internal/worker"
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
		log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Подключаем blob-хранилище
	store, err := blob.NewJetStreamStore(context.Background(), cfg.NatsURL, cfg.BucketName)
	if err != nil {
		log.Fatal("Failed to connect to the object store.")
	}
	defer store.Close()
	logger.Info("Successfully connected to the object store!")

	taskRepo := repo.NewTaskRepo(pool)
	attachments := blob.NewClient(store, cfg.BucketName)
	notifier := notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.EmailSender)
	taskService := service.NewTaskService(taskRepo, attachments, notifier, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	// Фоновая очистка осиротевших вложений
	sweeper := worker.NewSweeper(taskRepo, store, logger, cfg.SweepInterval)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/task", func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Put("/{task_id}", taskHandler.Update)
		r.Delete("/{task_id}", taskHandler.Delete)
	})

	srv := http.Server{ // Создаем сервер
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
