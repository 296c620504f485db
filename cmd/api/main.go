package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/finbuddy/advisor-service/internal/config"
	"github.com/finbuddy/advisor-service/internal/engine"
	"github.com/finbuddy/advisor-service/internal/handler"
	"github.com/finbuddy/advisor-service/internal/integrations/rates"
	"github.com/finbuddy/advisor-service/internal/middleware"
	"github.com/finbuddy/advisor-service/internal/repository"
	"github.com/finbuddy/advisor-service/internal/scheduler"
	"github.com/finbuddy/advisor-service/internal/service"
	"github.com/finbuddy/advisor-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	eng := engine.New(repo, logger, engine.WithBracketRate(cfg.TaxBracketRate))
	ratesClient := rates.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)
	h := handler.NewHandler(svc, eng, ratesClient, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LogMiddleware(logger))
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/tip", h.Tip).Methods("GET")
	r.HandleFunc("/refinance-rate", h.RefinanceRate).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/query", h.Query).Methods("POST")
	authRouter.HandleFunc("/suggestions", h.Suggestions).Methods("GET")
	authRouter.HandleFunc("/partner", h.LinkPartner).Methods("POST")

	// Start the weekly digest scheduler
	sched := scheduler.NewScheduler(cfg, repo, eng, ratesClient, sender, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
