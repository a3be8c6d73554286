package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	mw "finitefield.org/hanko-community/internal/middleware"
	"finitefield.org/hanko-community/internal/pages"
	"finitefield.org/hanko-community/internal/pages/forum"
	"finitefield.org/hanko-community/internal/styles"
	"finitefield.org/hanko-community/internal/theme"
)

// Config holds runtime options for the site server.
type Config struct {
	Addr            string
	H2C             bool
	ShutdownTimeout time.Duration
	Theme           *theme.Theme
	Pages           *pages.Registry
	Logger          *zap.Logger
	// SecureCookies marks cookies set by the site HTTPS-only.
	SecureCookies bool
}

// Server is the site HTTP server.
type Server struct {
	http            *http.Server
	handler         http.Handler
	log             *zap.Logger
	shutdownTimeout time.Duration
}

// DefaultPages returns the registry of every page on the site.
func DefaultPages() (*pages.Registry, error) {
	reg := pages.NewRegistry()
	if err := reg.Register(forum.Page()); err != nil {
		return nil, err
	}
	return reg, nil
}

// New constructs the server with its middleware stack and embedded assets.
// Nil Theme, Pages or Logger fall back to the defaults.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Theme == nil {
		cfg.Theme = theme.Default()
	}
	if cfg.Pages == nil {
		reg, err := DefaultPages()
		if err != nil {
			return nil, fmt.Errorf("register pages: %w", err)
		}
		cfg.Pages = reg
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	router, err := newRouter(cfg)
	if err != nil {
		return nil, err
	}
	var handler http.Handler = router
	if cfg.H2C {
		// Cloud Run can speak HTTP/2 cleartext end to end.
		handler = h2c.NewHandler(router, &http2.Server{})
	}

	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		handler:         handler,
		log:             cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

func newRouter(cfg Config) (*chi.Mux, error) {
	stylesheets := styles.NewRegistry()
	if err := stylesheets.Register(theme.Styles); err != nil {
		return nil, err
	}
	if err := stylesheets.Register(cfg.Pages.Stylesheets()...); err != nil {
		return nil, err
	}
	staticFS, err := theme.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle(styles.AssetPrefix+"*", stylesheets)
	r.Handle("/assets/static/*", http.StripPrefix("/assets/static", mw.AssetsWithCache(staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(mw.RequestInfoMiddleware)
		r.Use(mw.Locale(cfg.Theme.I18n, cfg.SecureCookies))
		r.Use(mw.VaryLocale)
		r.Use(theme.Middleware(cfg.Theme))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, forum.Route, http.StatusFound)
		})
		cfg.Pages.Mount(r)
		r.NotFound(theme.NotFoundHandler().ServeHTTP)
	})
	return r, nil
}

// Handler exposes the full handler chain, mainly for tests and the render command.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
