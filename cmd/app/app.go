package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/viastore/viastore/internal/api"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/db"
	"github.com/viastore/viastore/internal/logger"
)

const ConfigPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	database, err := OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second signal kills the process while shutdown is in progress.
		<-ctx.Done()
		stop()
	}()

	rdb, err := db.OpenRedis(ctx, conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize redis -> %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	s, err := api.NewServer(conf, database, rdb)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	go s.Feed.Run(ctx)

	addr := ":" + s.Config.API.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	srv := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err = Serve(ctx, srv, ln, conf.API.ShutdownTimeout); err != nil {
		return fmt.Errorf("failed to run the server -> %w", err)
	}

	return nil
}

// Serve runs srv on ln until ctx is done, then stops accepting connections
// and waits up to timeout for in-flight requests.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("srv.Serve -> %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("srv.Serve -> %w", err)
	}

	zap.L().Info("server stopped")

	return nil
}

// OpenDatabase prefers DATABASE_URL over the configured connection fields.
func OpenDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenWithURL(conf.Database.Driver, dbURL)
	}

	return db.Open(conf.Database)
}
