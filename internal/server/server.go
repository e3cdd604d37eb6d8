package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/financeapi/apiserver/config"
	"github.com/financeapi/apiserver/internal/db"
	"github.com/financeapi/apiserver/internal/handlers"
	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/internal/mq"
	"github.com/financeapi/apiserver/internal/services"
	"github.com/financeapi/apiserver/internal/storage"
	"github.com/financeapi/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// Services groups everything the router needs.
type Services struct {
	Users        *services.UserService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Exports      *services.ExportService
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
	logger     *log.Logger
}

// New connects to the database and optional backends and builds the router.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	broker, err := mq.Open(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open events backend: %w", err)
	}
	var publisher services.EventPublisher
	if broker != nil {
		publisher = mq.NewEventPublisher(broker, cfg.Events.Channel)
		logger.Info("publishing resource events", "backend", cfg.Events.Backend, "channel", cfg.Events.Channel)
	}

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		closeAll(dbConn, broker)
		return nil, fmt.Errorf("open object storage: %w", err)
	}
	var exportStore services.ObjectStore
	if objects != nil {
		exportStore = objects
		logger.Info("exports enabled", "backend", cfg.Storage.Backend, "bucket", objects.Bucket())
	}

	validate := services.NewValidator()
	categoryService := services.NewCategoryService(store.NewCategoryRepository(dbConn), validate, publisher)
	transactionService := services.NewTransactionService(
		store.NewTransactionRepository(dbConn),
		categoryService,
		validate,
		publisher,
	)

	router := NewRouter(cfg.Auth, logger, Services{
		Users:        services.NewUserService(store.NewUserRepository(dbConn)),
		Categories:   categoryService,
		Transactions: transactionService,
		Exports:      services.NewExportService(categoryService, transactionService, exportStore),
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
		logger:     logger,
	}, nil
}

// NewRouter mounts every route on a fresh chi router.
func NewRouter(authCfg config.AuthConfig, logger *log.Logger, svc Services) *chi.Mux {
	auth := handlers.NewAuthHandler(svc.Users, authCfg)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		log.Middleware(logger.WithComponent(log.ComponentHTTP)),
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)
	router.Get("/healthz", handlers.Healthz)

	router.Group(func(r chi.Router) {
		r.Use(auth.ResolveIdentity)
		handlers.AuthRouter(r, auth)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Route("/categories", func(r chi.Router) {
				handlers.CategoryRouter(r, svc.Categories)
			})
			r.Route("/transactions", func(r chi.Router) {
				handlers.TransactionRouter(r, svc.Transactions)
			})
			r.Route("/exports", func(r chi.Router) {
				handlers.ExportRouter(r, svc.Exports)
			})
		})
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	closeAll(s.db, s.broker)
	return err
}

func closeAll(dbConn *sql.DB, broker *mq.MQ) {
	if broker != nil {
		_ = broker.Close()
	}
	if dbConn != nil {
		_ = dbConn.Close()
	}
}
