// package server contains middleware & handlers for the sangeet media server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows its own route patterns.
//
// Patterns use the [http.ServeMux] syntax including the method, e.g. "GET /health".
type Handler interface {
	http.Handler
	Routes() []string
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// ShutdownTimeout bounds how long [Stop] waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// New returns an [http.Server] listening on addr with conservative timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Start runs srv in the background.
//
// The returned channel yields the listen error, if any, and is closed once the server has stopped.
func Start(srv *http.Server, logger *log.Logger) <-chan error {
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		logger.Debug("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	return errs
}

// Stop gracefully shuts srv down, waiting at most [ShutdownTimeout].
func Stop(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// NewMediaRouter builds the router used by "sangeet serve": health check and media files, with logging and
// panic recovery.
func NewMediaRouter(mediaDir string, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handler(NewHealthHandler())
	router.Handler(NewMediaHandler(mediaDir, logger))
	return router
}
