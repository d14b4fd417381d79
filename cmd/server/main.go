// cmd/server/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/csn-group4/exam-registration/internal/app"
	"github.com/csn-group4/exam-registration/internal/config"
	"github.com/csn-group4/exam-registration/internal/database"
	"github.com/csn-group4/exam-registration/internal/handler"
	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/repository"
	"github.com/csn-group4/exam-registration/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer func() { _ = logger.Sync() }()

	pool, err := database.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to postgres", zap.String("db", cfg.DBName))

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		logger.Fatal("migration version", zap.Error(err))
	}
	_ = migrator.Close()
	logger.Info("migrations applied", zap.Int64("version", version))

	// Wire up layers.
	ledgerRepo := repository.NewLedgerRepository(pool, cfg.LockTimeout)
	examRepo := repository.NewExamRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	regSvc := service.NewRegistrationService(ledgerRepo, service.UUIDCodeGenerator{}, logger)
	catalogSvc := service.NewCatalogService(examRepo, catalogRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger)

	regHandler := handler.NewRegistrationHandler(regSvc, logger)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	facultyHandler := handler.NewFacultyHandler(regSvc)

	// Build the router.
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.AccessLog(logger))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Catalog reads are public so the signup form can list majors and the
	// scheduling page can show open sessions.
	r.Get("/exams", catalogHandler.ListExams)
	r.Get("/exams/availability", regHandler.Availability)
	r.Get("/exams/{id}", catalogHandler.GetExam)
	r.Get("/locations", catalogHandler.ListLocations)
	r.Get("/departments", catalogHandler.ListDepartments)
	r.Get("/majors", catalogHandler.ListMajors)

	// Student booking surface.
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(authSvc))
		r.Use(handler.RequireRole(model.RoleStudent))
		r.Post("/exams/{id}/register", regHandler.Register)
		r.Post("/exams/{id}/cancel", regHandler.Cancel)
		r.Post("/registrations/{id}/reschedule", regHandler.Reschedule)
		r.Get("/registrations/{id}", regHandler.Confirmation)
		r.Get("/students/me/appointments", regHandler.Appointments)
	})

	// Faculty surface: log, search, catalog management.
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(authSvc))
		r.Use(handler.RequireRole(model.RoleFaculty))
		r.Get("/faculty/exam-log", facultyHandler.ExamLog)
		r.Get("/faculty/search", facultyHandler.Search)
		r.Post("/exams", catalogHandler.CreateExam)
		r.Post("/locations", catalogHandler.CreateLocation)
		r.Post("/departments", catalogHandler.CreateDepartment)
		r.Post("/majors", catalogHandler.CreateMajor)
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in a background goroutine so we can listen for the shutdown signal.
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
