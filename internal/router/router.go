package router

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/cache"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/handlers"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/middleware"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

// RouterDependencies holds everything needed to register routes.
type RouterDependencies struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Metrics   *telemetry.Metrics
	Telemetry *telemetry.Telemetry

	Public    *handlers.PublicHandler
	Media     *handlers.MediaHandler
	Auth      *handlers.AuthHandler
	Audit     *handlers.AuditHandler
	Status    *handlers.StatusHandler
	Customers *handlers.RecordHandler[*storage.Customer]
	Products  *handlers.RecordHandler[*storage.Product]
	BlogPosts *handlers.RecordHandler[*storage.BlogPost]
	Gallery   *handlers.RecordHandler[*storage.GalleryItem]

	PageCache   *cache.Cache
	Limiter     *middleware.IPRateLimiter
	AuthLimiter *middleware.IPRateLimiter
	GeoStats    *middleware.GeoStats
	Session     *middleware.Sessions
	CSRF        *middleware.CSRF
	CSP         *middleware.CSP
}

func NewRouter(deps RouterDependencies) http.Handler {
	appMux := http.NewServeMux()

	// public site, served through the page cache
	cached := deps.PageCache.Wrap
	appMux.Handle("GET /{$}", cached(deps.Public.HandleHome()))
	appMux.Handle("GET /pages/{slug}", cached(deps.Public.HandlePage()))
	appMux.Handle("GET /blog", cached(deps.Public.HandleBlogIndex()))
	appMux.Handle("GET /blog/{id}", cached(deps.Public.HandleBlogPost()))
	appMux.Handle("GET /products", cached(deps.Public.HandleProducts()))
	appMux.Handle("GET /gallery", cached(deps.Public.HandleGallery()))

	// assets carry their own cache headers, do not page-cache binaries
	appMux.Handle("GET /media/{key...}", deps.Media)

	authDelay := 500 * time.Millisecond
	authStack := func(h http.Handler) http.Handler {
		h = middleware.SecureDelay(authDelay, deps.Metrics)(h)
		h = deps.AuthLimiter.Middleware(deps.Logger)(h)
		return h
	}
	appMux.Handle("POST /console/login", authStack(deps.Auth.HandleLogin()))
	appMux.Handle("POST /console/logout", authStack(deps.Auth.HandleLogout()))

	// console CRUD, authenticated sessions only
	requireAuth := deps.Session.RequireAuth()
	registerRecordRoutes(appMux, "customers", deps.Customers, requireAuth)
	registerRecordRoutes(appMux, "products", deps.Products, requireAuth)
	registerRecordRoutes(appMux, "posts", deps.BlogPosts, requireAuth)
	registerRecordRoutes(appMux, "gallery", deps.Gallery, requireAuth)

	appMux.Handle("GET /console/audit", requireAuth(deps.Audit.HandleList()))

	middlewareStack := []middleware.Middleware{
		middleware.Recover(deps.Logger),
	}

	if deps.Cfg.Metrics.EnableTelemetry {
		// order matters so don't append blindly
		middlewareStack = append(middlewareStack, middleware.Observability(deps.Tracer, deps.Metrics, deps.Logger))
	}

	middlewareStack = append(middlewareStack,
		deps.CSP.Middleware(),
		deps.Limiter.Middleware(deps.Logger),
		deps.GeoStats.Middleware(deps.Logger),
		deps.Session.Middleware(deps.Logger, deps.Tracer),
		deps.CSRF.Middleware(deps.Logger),
		middleware.Logger(deps.Logger),
	)

	appHandler := middleware.Chain(appMux, middlewareStack...)

	rootMux := http.NewServeMux()

	if deps.Telemetry != nil && deps.Telemetry.PrometheusHandler != nil {
		rootMux.Handle("GET /metrics", deps.Telemetry.PrometheusHandler)
	}
	rootMux.Handle("GET /status", deps.Status.HandleStatus())

	// lightweight for docker keepalive
	rootMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	rootMux.Handle("/", appHandler)

	return rootMux
}

func registerRecordRoutes[R storage.Record](mux *http.ServeMux, name string, h *handlers.RecordHandler[R], requireAuth middleware.Middleware) {
	base := "/console/" + name

	mux.Handle("GET "+base, requireAuth(h.HandleList()))
	mux.Handle("POST "+base, requireAuth(h.HandleCreate()))
	mux.Handle("GET "+base+"/{id}", requireAuth(h.HandleGet()))
	mux.Handle("PUT "+base+"/{id}", requireAuth(h.HandleUpdate()))
	mux.Handle("DELETE "+base+"/{id}", requireAuth(h.HandleDelete()))
}
