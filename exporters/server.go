package exporters

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/maddsua/keepalive/config"
)

// Server wraps http.Server with address validation and graceful shutdown.
type Server struct {
	server *http.Server
}

func NewServer(addr string, handler http.Handler) (*Server, error) {

	if err := config.ValidateHostPort(addr); err != nil {
		return nil, err
	}

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// Serve listens until the context is cancelled, then shuts down with a 5 second budget.
func (this *Server) Serve(ctx context.Context) error {

	errCh := make(chan error, 1)

	go func() {
		err := this.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {

	case err := <-errCh:
		return err

	case <-ctx.Done():

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return this.server.Shutdown(shutdownCtx)
	}
}
