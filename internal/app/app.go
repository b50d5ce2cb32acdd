package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"admin-console/internal/apiclient"
	"admin-console/internal/cache"
	"admin-console/internal/catalog"
	"admin-console/internal/config"
	"admin-console/internal/dashboard"
	"admin-console/internal/database"
	"admin-console/internal/event"
	"admin-console/internal/handler"
	"admin-console/internal/imageprep"
	"admin-console/internal/kvstore"
	"admin-console/internal/middleware"
	"admin-console/internal/router"
	"admin-console/internal/session"
	"admin-console/internal/tokenstore"
	"admin-console/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	sessions     *session.Manager
	bus          *event.InMemoryBus
	hub          *websocket.Hub
	dashboard    *dashboard.Service
	catalog      *catalog.Store
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	kv, cleanup, err := openState(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open state backend: %w", err)
	}

	bus := event.NewBus()
	tokens := tokenstore.New(kv)
	ttlCache := cache.New(kv)

	client, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.BackendBaseURL,
		Timeout:   cfg.UpstreamTimeout,
		LoginPath: cfg.LoginPath,
	}, tokens, apiclient.WithBus(bus))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	sessions := session.NewManager(client, tokens, kv,
		session.WithBus(bus),
		session.WithRefreshOnStartup(cfg.AuthRefreshOnStartup),
	)
	categories := catalog.NewStore(client, ttlCache, cfg.CacheTTL, bus)
	stats := dashboard.NewService(client, ttlCache, cfg.CacheTTL, bus)
	images := imageprep.New(cfg.ImageMaxDimension, cfg.UploadMaxSize)
	hub := websocket.NewHub(bus)

	gate := middleware.NewSessionGate(sessions, cfg.LoginPath)
	appRouter := router.New(cfg, gate, router.Handlers{
		Auth:      handler.NewAuthHandler(sessions, client),
		Dashboard: handler.NewDashboardHandler(stats),
		Category:  handler.NewCategoryHandler(categories),
		Product:   handler.NewProductHandler(client, images, bus, cfg.UploadMaxSize),
		Customer:  handler.NewCustomerHandler(client, bus),
		System:    handler.NewSystemHandler(client, hub),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		sessions:     sessions,
		bus:          bus,
		hub:          hub,
		dashboard:    stats,
		catalog:      categories,
		cleanupFuncs: []func(){cleanup},
	}, nil
}

// openState builds the key-value store selected by STATE_BACKEND and the
// function that releases it.
func openState(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendMemory:
		slog.Warn("state backend is in-memory, the session will not survive a restart")
		return kvstore.NewMemoryStore(), func() {}, nil

	case config.StateBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("state backend ready", "backend", cfg.StateBackend, "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return kvstore.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	case config.StateBackendPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("state backend ready", "backend", cfg.StateBackend)
		return kvstore.NewPostgresStore(db.Pool), db.Close, nil

	default:
		store, err := kvstore.NewFileStore(cfg.StateFile)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("state backend ready", "backend", cfg.StateBackend, "path", store.Path())
		return store, func() {}, nil
	}
}

// Handler exposes the router, for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Start launches the background workers and reconciles the stored session.
// Workers stop when ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.sessions.Run(ctx, a.bus)
	go a.dropCachesOnLogout(ctx)

	state, err := a.sessions.CheckAuth(ctx)
	switch {
	case err != nil:
		slog.Error("startup session check failed", "error", err)
	case state.Authenticated():
		slog.Info("resumed operator session", "user_id", state.Session.User.ID, "expires_at", state.Session.ExpiresAt)
	default:
		slog.Info("no valid operator session, login required", "reason", state.Reason)
	}
}

// dropCachesOnLogout forgets cached backend data once the operator signs out
// so the next operator starts from fresh figures.
func (a *App) dropCachesOnLogout(ctx context.Context) {
	events, unsubscribe := a.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Type == event.TypeSessionLoggedOut {
				a.dashboard.Clear(ctx)
				a.catalog.Invalidate(ctx)
			}
		}
	}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	a.Start(workers)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("console starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			a.cleanup()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	cancelWorkers()
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("console stopped")
	return nil
}

func (a *App) cleanup() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
}
