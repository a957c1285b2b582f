// Package httpapi wires the sync server's HTTP surface: a chi router,
// its middleware stack, and the handlers for auth, item buckets, and
// the event stream.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cuemby/taskbook/internal/hub"
	"github.com/cuemby/taskbook/internal/server/auth"
	"github.com/cuemby/taskbook/internal/server/db"
	"github.com/cuemby/taskbook/internal/server/metrics"
	"github.com/cuemby/taskbook/internal/server/ratelimit"
	"github.com/cuemby/taskbook/internal/server/sse"
	"github.com/cuemby/taskbook/pkg/config"
	"github.com/cuemby/taskbook/pkg/log"
)

// Server holds every dependency a handler needs: the database, the
// notification hub, and the login rate limiter. It has no mutable
// state of its own beyond what those carry.
type Server struct {
	DB           *db.DB
	Hub          *hub.Hub
	Config       *config.Server
	LoginLimiter *ratelimit.Limiter
}

// NewServer builds a Server from its dependencies and constructs the
// login rate limiter from cfg.
func NewServer(database *db.DB, h *hub.Hub, cfg *config.Server) *Server {
	return &Server{
		DB:     database,
		Hub:    h,
		Config: cfg,
		LoginLimiter: ratelimit.New(
			time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
			cfg.RateLimitMaxAttempts,
		),
	}
}

// Routes builds the full router: request logging and recovery first,
// then CORS, then the route tree with auth applied per-group.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.DB))
		r.Delete("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)
		r.Get("/items", s.handleItemsGet(false))
		r.Put("/items", s.handleItemsPut(false))
		r.Get("/items/archive", s.handleItemsGet(true))
		r.Put("/items/archive", s.handleItemsPut(true))
		r.Get("/events", sse.Handler(s.Hub))
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.Config.CORSOrigins) == 0 {
		return []string{}
	}
	return s.Config.CORSOrigins
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		timer := metrics.NewTimer()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		timer.ObserveRoute(route)
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
