package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/database"
	"github.com/aiassess/assessment-backend/internal/handler"
	"github.com/aiassess/assessment-backend/internal/logger"
	"github.com/aiassess/assessment-backend/internal/repository"
	"github.com/aiassess/assessment-backend/internal/router"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/aiassess/assessment-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Assessment Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	assessmentRepo := repository.NewAssessmentRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	examService := service.NewExamService(assessmentRepo, scheduleRepo, sessionRepo, resultRepo, rdb, log)
	assessmentService := service.NewAssessmentService(assessmentRepo, scheduleRepo, rdb, log)
	scheduleService := service.NewScheduleService(scheduleRepo, assessmentRepo, rdb, log)
	userService := service.NewUserService(userRepo, authService, log)
	passwordService := service.NewPasswordService(userRepo, authService, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Exam:       handler.NewExamHandler(examService),
		Proctoring: handler.NewProctoringHandler(cfg, rdb, log),
		Assessment: handler.NewAssessmentHandler(assessmentService, scheduleService),
		User:       handler.NewUserHandler(userService),
		Candidate:  handler.NewCandidateHandler(userService),
		Password:   handler.NewPasswordHandler(passwordService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	mailerWorker := worker.NewMailerWorker(cfg, rdb, log)
	go mailerWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the mailer worker and let the queue drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
