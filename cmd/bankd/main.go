package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/api/handlers"
	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/auth"
	"github.com/securebank/corebank/internal/cards"
	"github.com/securebank/corebank/internal/config"
	"github.com/securebank/corebank/internal/fixeddeposit"
	"github.com/securebank/corebank/internal/ledger"
	"github.com/securebank/corebank/internal/logger"
	"github.com/securebank/corebank/internal/notify"
	"github.com/securebank/corebank/internal/onboarding"
	"github.com/securebank/corebank/internal/recurring"
	"github.com/securebank/corebank/internal/storage"
	"github.com/securebank/corebank/internal/storage/jsonfile"
	"github.com/securebank/corebank/internal/storage/memory"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}

	// Wire the engines.
	alerts := notify.New(store, log)
	engine := ledger.New(store, alerts, log)
	cardSvc := cards.New(store, log)
	onboardingSvc := onboarding.New(store, cardSvc, alerts, log)
	authSvc := auth.New(store, alerts, log)
	fdSvc := fixeddeposit.New(store, engine, alerts, log)
	recurringSvc := recurring.NewService(store, log)

	// Start the recurring transfer scheduler in the background.
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()

	scheduler := recurring.NewScheduler(store, engine, time.Duration(cfg.SchedulerIntervalSec)*time.Second, log)
	go func() {
		log.Info().Int("interval_seconds", cfg.SchedulerIntervalSec).Msg("Starting recurring transfer scheduler")
		if err := scheduler.Run(schedulerCtx); err != nil {
			log.Error().Err(err).Msg("Scheduler stopped with error")
		}
	}()

	// Initialize handlers
	accountsHandler := handlers.NewAccountsHandler(store, engine, log)
	customersHandler := handlers.NewCustomersHandler(onboardingSvc, authSvc, log)
	fdHandler := handlers.NewFixedDepositsHandler(fdSvc, log)
	cardsHandler := handlers.NewCardsHandler(cardSvc, log)
	notificationsHandler := handlers.NewNotificationsHandler(store, alerts, log)
	recurringHandler := handlers.NewRecurringHandler(recurringSvc, log)
	adminHandler := handlers.NewAdminHandler(store, authSvc, fdSvc, log)

	mux := http.NewServeMux()

	// Customer endpoints
	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			customersHandler.Register(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/customers/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/customers/")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(rest, "/pin"):
			customersHandler.ChangePIN(w, r, strings.TrimSuffix(rest, "/pin"))
		case r.Method == http.MethodGet && strings.HasSuffix(rest, "/login-history"):
			customersHandler.LoginHistory(w, r, strings.TrimSuffix(rest, "/login-history"))
		case r.Method == http.MethodPut && !strings.Contains(rest, "/"):
			customersHandler.UpdateProfile(w, r, rest)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			customersHandler.Login(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Account and ledger endpoints
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountsHandler.ListAccounts(w, r)
		case http.MethodPost:
			accountsHandler.OpenAccount(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
		switch {
		case strings.HasSuffix(rest, "/deposit"):
			accountsHandler.Deposit(w, r, strings.TrimSuffix(rest, "/deposit"))
		case strings.HasSuffix(rest, "/withdraw"):
			accountsHandler.Withdraw(w, r, strings.TrimSuffix(rest, "/withdraw"))
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
		}
	})

	mux.HandleFunc("/api/transfers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			accountsHandler.Transfer(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			accountsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Fixed deposit endpoints
	mux.HandleFunc("/api/fixed-deposits", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fdHandler.List(w, r)
		case http.MethodPost:
			fdHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Card endpoints
	mux.HandleFunc("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cardsHandler.List(w, r)
		case http.MethodPost:
			cardsHandler.Issue(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/cards/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/cards/")
		if r.Method == http.MethodPost && strings.HasSuffix(rest, "/freeze") {
			cardsHandler.ToggleFreeze(w, r, strings.TrimSuffix(rest, "/freeze"))
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Notification endpoints
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			notificationsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
		if r.Method == http.MethodPost && strings.HasSuffix(rest, "/read") {
			notificationsHandler.MarkRead(w, r, strings.TrimSuffix(rest, "/read"))
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Recurring transfer endpoints
	mux.HandleFunc("/api/recurring-transfers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recurringHandler.List(w, r)
		case http.MethodPost:
			recurringHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/recurring-transfers/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/recurring-transfers/")
		if r.Method == http.MethodPost && strings.HasSuffix(rest, "/toggle") {
			recurringHandler.Toggle(w, r, strings.TrimSuffix(rest, "/toggle"))
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Admin endpoints
	mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			adminHandler.Login(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			adminHandler.ListUsers(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
		if r.Method == http.MethodPost && strings.HasSuffix(rest, "/lock") {
			adminHandler.SetUserLock(w, r, strings.TrimSuffix(rest, "/lock"))
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/admin/fixed-deposits/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/admin/fixed-deposits/")
		if r.Method == http.MethodPost && strings.HasSuffix(rest, "/mature") {
			adminHandler.MarkFixedDepositMatured(w, r, strings.TrimSuffix(rest, "/mature"))
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/admin/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			adminHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			adminHandler.Stats(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(cfg.AllowOrigins)(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("Starting bank server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func openStore(cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return memory.New(), nil
	default:
		log.Info().Str("dir", cfg.DataDir).Msg("Opening file-backed store")
		return jsonfile.Open(cfg.DataDir)
	}
}
