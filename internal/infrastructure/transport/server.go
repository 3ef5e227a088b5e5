package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

const readHeaderTimeout = 10 * time.Second

// Server is the worker endpoint: TLS, per-request authentication and the RPC dispatcher.
type Server struct {
	settings   *entities.ServerSettings
	dispatcher *Dispatcher
	pool       *Pool
	handler    http.Handler
}

// NewServer creates a Server. settings is read-only from here on.
func NewServer(settings *entities.ServerSettings, executor Executor, authenticator Authenticator) *Server {
	pool := NewPool(settings.Workers)
	dispatcher := NewDispatcher(settings, executor, pool)

	mux := http.NewServeMux()
	secured := authMiddleware(authenticator, dispatcher)
	mux.Handle(RPCPath, secured)
	mux.Handle("/", secured)

	return &Server{
		settings:   settings,
		dispatcher: dispatcher,
		pool:       pool,
		handler:    wrap(mux),
	}
}

// Handler returns the full middleware chain, for embedding in another server or a test server.
func (it *Server) Handler() http.Handler {
	return it.handler
}

// ListenAndServe loads the key pair, listens on the configured address and serves until ctx is cancelled.
func (it *Server) ListenAndServe(ctx context.Context) error {
	certificate, err := tls.LoadX509KeyPair(it.settings.CertFile, it.settings.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}

	//nolint:exhaustruct // defaults for everything else
	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{certificate},
	}

	listener, err := tls.Listen("tcp", it.settings.Address(), tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", it.settings.Address(), err)
	}

	return it.Serve(ctx, listener)
}

// Serve accepts connections on listener, each on its own goroutine, until ctx is cancelled.
// A failing connection is logged and closed without affecting the others.
func (it *Server) Serve(ctx context.Context, listener net.Listener) error {
	errorLog := logger.StandardLogger().WriterLevel(logger.WarnLevel)
	defer errorLog.Close()

	//nolint:exhaustruct // defaults for everything else
	srv := &http.Server{
		Handler:           it.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          log.New(errorLog, "[transport] ", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[transport] Listening on %s (methods: %v)", listener.Addr(), it.dispatcher.Methods())
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logger.Info("[transport] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), it.settings.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		it.pool.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
