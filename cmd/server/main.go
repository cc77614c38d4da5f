package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/database"
	"github.com/parikshahq/pariksha-backend/internal/handler"
	"github.com/parikshahq/pariksha-backend/internal/logger"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/parikshahq/pariksha-backend/internal/router"
	"github.com/parikshahq/pariksha-backend/internal/service"
	"github.com/parikshahq/pariksha-backend/internal/validator"
	"github.com/parikshahq/pariksha-backend/internal/worker"
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
		Msg("Starting Pariksha Backend")

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
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	monitorRepo := repository.NewMonitorRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService, log)
	courseService := service.NewCourseService(courseRepo, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	examService := service.NewExamService(examRepo, questionRepo, log)
	questionService := service.NewQuestionService(questionRepo, examRepo, log)
	resultService := service.NewResultService(resultRepo, log)
	dashboardService := service.NewDashboardService(dashboardRepo, log)

	attemptStore := service.NewRedisAttemptStore(rdb, cfg.SessionGrace)
	sessionManager := service.NewExamSessionManager(attemptStore)
	answerCache := service.NewRedisAnswerCache(rdb, cfg.SessionGrace)
	guard := service.NewAttemptGuard(resultRepo)
	scoringService := service.NewScoringService(
		guard, examRepo, questionRepo, resultRepo, sessionManager, answerCache, log)
	monitorService := service.NewMonitorService(
		service.NewRedisEventQueue(rdb), monitorRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth: handler.NewAuthHandler(authService, userService),
		StudentPortal: handler.NewStudentPortalHandler(
			examService, questionRepo, guard, sessionManager,
			scoringService, answerCache, resultService),
		Monitor:   handler.NewMonitorHandler(monitorService, monitorRepo),
		Course:    handler.NewCourseHandler(courseService),
		Subject:   handler.NewSubjectHandler(subjectService),
		Exam:      handler.NewExamHandler(examService),
		Question:  handler.NewQuestionHandler(questionService, cfg),
		Staff:     handler.NewStaffHandler(userService),
		Result:    handler.NewResultHandler(resultService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	monitorWorker := worker.NewMonitorLogWorker(monitorRepo, rdb, log)
	go monitorWorker.Start(workerCtx)

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

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
