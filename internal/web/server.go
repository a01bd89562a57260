// Package web provides the HTTP server and handlers for the toolbox UI.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/toolbox/internal/config"
	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/session"
	mw "github.com/JonMunkholm/toolbox/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the toolbox.
type Server struct {
	cfg      *config.Config
	service  *core.Service
	sessions *session.Store
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, service *core.Service, sessions *session.Store) *Server {
	s := &Server{
		cfg:      cfg,
		service:  service,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		// Pages
		r.Get("/", s.handleIndex)
		r.Get("/m/{module}", s.handleModule)

		// Lyrics
		r.Post("/m/lyrics/search", s.handleLyricsSearch)
		r.Get("/m/lyrics/download", s.handleLyricsDownload)

		// Registry editor
		r.Post("/m/societary/load", s.handleRegistryLoad)
		r.Post("/m/societary/save", s.handleRegistrySave)
		r.Post("/m/societary/reset", s.handleRegistryReset)
		r.Get("/m/societary/download", s.handleRegistryDownload)

		// Table editor
		r.Post("/m/excel/upload", s.handleDatasetUpload)
		r.Post("/m/excel/create", s.handleDatasetCreate)
		r.Post("/m/excel/select", s.handleDatasetSelect)
		r.Post("/m/excel/remove", s.handleDatasetRemove)
		r.Post("/m/excel/sheet", s.handleDatasetSheet)
		r.Post("/m/excel/column/add", s.handleColumnAdd)
		r.Post("/m/excel/column/drop", s.handleColumnDrop)
		r.Post("/m/excel/cell", s.handleCellEdit)
		r.Post("/m/excel/row/add", s.handleRowAdd)
		r.Post("/m/excel/row/delete", s.handleRowDelete)
		r.Post("/m/excel/restore", s.handleDatasetRestore)
		r.Post("/m/excel/join", s.handleJoin)
		r.Post("/m/excel/lookup", s.handleLookup)
		r.Post("/m/excel/remap/file", s.handleRemapFile)
		r.Post("/m/excel/remap/entry", s.handleRemapEntry)
		r.Post("/m/excel/remap/clear", s.handleRemapClear)
		r.Post("/m/excel/remap/apply", s.handleRemapApply)
		r.Post("/m/excel/arithmetic", s.handleArithmetic)
		r.Post("/m/excel/describe", s.handleDescribe)
		r.Post("/m/excel/analyze", s.handleAnalyze)
		r.Get("/m/excel/export", s.handleExport)

		// API routes
		r.Route("/api", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))

			r.Get("/modules", s.apiModules)
			r.Get("/lyrics", s.apiLyrics)

			r.Post("/registry", s.apiRegistryLoad)
			r.Put("/registry", s.apiRegistrySave)
			r.Get("/registry", s.apiRegistryDownload)
			r.Delete("/registry", s.apiRegistryReset)

			r.Get("/datasets", s.apiListDatasets)
			r.Post("/datasets", s.apiUploadDataset)
			r.Post("/datasets/empty", s.apiCreateDataset)
			r.Route("/datasets/{name}", func(r chi.Router) {
				r.Get("/", s.apiGetDataset)
				r.Delete("/", s.apiRemoveDataset)
				r.Post("/sheet", s.apiSelectSheet)
				r.Post("/columns", s.apiAddColumn)
				r.Delete("/columns/{column}", s.apiDropColumn)
				r.Put("/cells", s.apiEditCell)
				r.Post("/rows", s.apiAddRow)
				r.Delete("/rows/{row}", s.apiDeleteRow)
				r.Post("/restore", s.apiRestore)
				r.Post("/describe", s.apiDescribe)
				r.Get("/analysis", s.apiAnalyze)
				r.Get("/export", s.apiExport)
			})

			r.Post("/join", s.apiJoin)
			r.Post("/lookup", s.apiLookup)
			r.Post("/arithmetic", s.apiArithmetic)
			r.Post("/remap/file", s.apiRemapFile)
			r.Post("/remap/entries", s.apiRemapEntry)
			r.Delete("/remap/entries", s.apiRemapClear)
			r.Post("/remap/apply", s.apiRemapApply)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
// It returns nil after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("starting server", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// contentSecurityPolicy allows only same-origin resources and inline styles.
const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// errRateLimited is reported when a client exceeds its request budget.
var errRateLimited = errors.New("rate limit exceeded")

// rateLimiter implements a fixed-window request limit per client IP.
type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rate      int           // requests per window
	window    time.Duration // time window
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      rate,
		window:    window,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// sweep drops visitors idle for two windows. Called with mu held.
func (rl *rateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, exists := rl.visitors[ip]
	if !exists || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			msg, status := mapError(r, errRateLimited)
			if wantsJSON(r) {
				respondErrorJSON(w, msg, status)
			} else {
				respondErrorText(w, errRateLimited, status)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}
