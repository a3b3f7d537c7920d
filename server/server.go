package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/search"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

/* Struct */

type Options struct {
	CorsOrigins []string
}

// Server exposes the icon, provider and license APIs.
type Server struct {
	Router *chi.Mux

	log         *logrus.Entry
	db          *database.DB
	search      *search.Service
	corsOrigins []string
}

/* Initializer */

func New(db *database.DB, s *search.Service, opts Options) *Server {
	srv := &Server{
		Router:      chi.NewRouter(),
		log:         logger.GetLogger("server"),
		db:          db,
		search:      s,
		corsOrigins: opts.CorsOrigins,
	}

	srv.mountHandlers()
	return srv
}

/* Public */

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("listen", addr).Info("Serving API")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed serving on %q", addr)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := hs.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed shutting down gracefully")
	}
	return nil
}

/* Private */

func (s *Server) mountHandlers() {
	s.Router.Use(s.requestID)
	s.Router.Use(s.requestLogger)
	if len(s.corsOrigins) > 0 {
		s.Router.Use(s.handleCORS)
	}

	s.Router.Route("/api", func(r chi.Router) {
		r.Get("/icons", s.wrap(s.getIcons))
		r.Get("/providers", s.wrap(s.getProviders))
		r.Get("/licenses", s.wrap(s.getLicenses))
		r.Get("/version", s.wrap(s.getVersion))
	})

	if s.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			s.log.Tracef("Route: %s %s", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			s.log.WithError(err).Trace("Failed walking routes")
		}
	}
}
