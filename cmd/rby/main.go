package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/audit"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/cache"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/document"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/handlers"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/lifecycle"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/media"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/middleware"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/pages"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/router"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage/sqlite"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

const version = "1.0.0"

type App struct {
	Server *http.Server
	Logger *slog.Logger
	Config *config.Config
}

func NewApp(cfg *config.Config, logger *slog.Logger, handler http.Handler) *App {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.Timeouts.Read,
		WriteTimeout: cfg.HTTP.Timeouts.Write,
		IdleTimeout:  cfg.HTTP.Timeouts.Idle,
	}

	return &App{
		Server: server,
		Logger: logger,
		Config: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	srvErrChan := make(chan error, 1)

	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErrChan <- err
		}
	}()

	select {
	case err := <-srvErrChan:
		return fmt.Errorf("server startup failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.Timeouts.Shutdown)
	defer cancel()

	a.Logger.Info("draining connections...")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		if closeErr := a.Server.Close(); closeErr != nil {
			return fmt.Errorf("graceful shutdown failed: %w", errors.Join(err, closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.Logger.Info("server stopped")
	return nil
}

func main() {
	cfg := config.LoadWithDefaults()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logger.Level})
	logger := slog.New(logHandler).With("app", cfg.App.Name)

	logger.Info("application starting", "pid", os.Getpid())
	logger.Info("configuration loaded",
		"name", cfg.App.Name,
		"env", cfg.App.Environment,
		"port", cfg.HTTP.Port,
		"storage_backend", cfg.Storage.Backend,
		"rate_limit_rps", cfg.Limiter.RPS,
		"trusted_proxy", cfg.Proxy.Trusted,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(rootCtx, cfg.Metrics, cfg.App.Name, version, cfg.App.Environment, logger)
	if err != nil {
		logger.Error("telemetry init", "err", err)
		os.Exit(1)
	}
	defer tel.Shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		logger.Error("metrics init", "err", err)
		os.Exit(1)
	}

	// database
	store, err := sqlite.NewStore(cfg.DB.Path)
	if err != nil {
		logger.Error("opening database", "path", cfg.DB.Path, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(cfg.DB.MigrationsPath); err != nil {
		logger.Error("running migrations", "err", err)
		os.Exit(1)
	}

	// console accounts are provisioned from the command line, there is
	// no public registration
	if len(os.Args) > 1 && os.Args[1] == "adduser" {
		if err := addUser(rootCtx, store, os.Args[2:], logger); err != nil {
			logger.Error("adduser failed", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// media backend
	var provider storage.Provider
	switch cfg.Storage.Backend {
	case "s3":
		provider, err = storage.NewS3Store(cfg.Storage.S3)
	default:
		provider, err = storage.NewLocalStorage(cfg.Storage.LocalPath)
	}
	if err != nil {
		logger.Error("initialising media backend", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}

	assets := media.NewStore(provider, cfg.Media, logger)

	// seed the backend with the images the marketing pages reference
	if err := media.SyncDir(rootCtx, provider, cfg.App.PagesDir, logger); err != nil {
		logger.Warn("asset sync incomplete", "err", err)
	}

	// marketing pages
	pageRepo, err := pages.NewRepository(cfg.App.Name, pages.NewRenderer("/media"))
	if err != nil {
		logger.Error("creating page repository", "err", err)
		os.Exit(1)
	}
	if err := pageRepo.LoadFromDisk(cfg.App.PagesDir, logger); err != nil {
		logger.Error("loading marketing pages", "dir", cfg.App.PagesDir, "err", err)
		os.Exit(1)
	}

	// sessions double as the lifecycle actor resolver
	isProd := cfg.App.Environment == "prod"
	sessions := middleware.NewSessionManager(cfg.Auth.SessionTTL, isProd, store.RawDB())

	trail := audit.NewWriter(store, logger)
	pageCache := cache.New(0, metrics, logger)

	newDeps := func(kind storage.Kind, paths []string) lifecycle.Deps {
		return lifecycle.Deps{
			Actors: sessions,
			Guard:  lifecycle.GuardFor(kind, store),
			Audit:  trail,
			Assets: assets,
			Cache:  pageCache,
			Paths:   paths,
			Logger:  logger,
			Tracer:  tel.Tracer,
			Metrics: metrics,
		}
	}

	customers := lifecycle.NewManager(storage.KindCustomer, store.Customers(), newDeps(storage.KindCustomer, nil))
	products := lifecycle.NewManager(storage.KindProduct, store.Products(), newDeps(storage.KindProduct, []string{"/products", "/"}))
	blogPosts := lifecycle.NewManager(storage.KindBlogPost, store.BlogPosts(), newDeps(storage.KindBlogPost, []string{"/blog"}))
	gallery := lifecycle.NewManager(storage.KindGalleryItem, store.Gallery(), newDeps(storage.KindGalleryItem, []string{"/gallery"}))

	// middlewares
	limiter := middleware.NewIPRateLimiter(rootCtx, cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Proxy.Trusted, metrics)
	authLimiter := middleware.NewIPRateLimiter(rootCtx, 2, 5, cfg.Proxy.Trusted, metrics)
	geo := middleware.NewGeoStats(rootCtx)
	csrf := middleware.NewCSRF(isProd)
	csp := middleware.NewCSP(isProd)

	handler := router.NewRouter(router.RouterDependencies{
		Cfg:       cfg,
		Logger:    logger,
		Tracer:    tel.Tracer,
		Metrics:   metrics,
		Telemetry: tel,

		Public: &handlers.PublicHandler{
			Pages:    pageRepo,
			Posts:    blogPosts,
			Products: products,
			Gallery:  gallery,
			Allow:    document.DefaultAllowList(),
			Logger:   logger,
		},
		Media: &handlers.MediaHandler{
			Assets: assets,
			Tracer: tel.Tracer,
			Logger: logger,
		},
		Auth: &handlers.AuthHandler{
			Users:    store,
			Sessions: sessions,
			Logger:   logger,
		},
		Audit:     &handlers.AuditHandler{Trail: trail, Logger: logger},
		Status:    &handlers.StatusHandler{GeoStats: geo},
		Customers: handlers.NewCustomerHandler(customers, cfg.Media, metrics, logger),
		Products:  handlers.NewProductHandler(products, cfg.Media, metrics, logger),
		BlogPosts: handlers.NewBlogPostHandler(blogPosts, cfg.Media, metrics, logger),
		Gallery:   handlers.NewGalleryHandler(gallery, cfg.Media, metrics, logger),

		PageCache:   pageCache,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
		GeoStats:    geo,
		Session:     sessions,
		CSRF:        csrf,
		CSP:         csp,
	})

	app := NewApp(cfg, logger, handler)

	if err := app.Run(rootCtx); err != nil {
		logger.Error("server crashed", "err", err)
		os.Exit(1)
	}

	logger.Info("application exited successfully")
	os.Exit(0)
}

// addUser creates a console account: rby adduser <username>, password in
// RBY_PASSWORD.
func addUser(ctx context.Context, store *sqlite.Store, args []string, logger *slog.Logger) error {
	if len(args) != 1 {
		return errors.New("usage: rby adduser <username>")
	}
	username := args[0]

	password := os.Getenv("RBY_PASSWORD")
	if len(password) < 8 {
		return errors.New("RBY_PASSWORD must be set and at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, username, string(hash))
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	logger.Info("user created", "id", user.ID, "username", user.Username)
	return nil
}
