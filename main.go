package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-house/internal/biddingService"
	comment "auction-house/internal/commentService"
	"auction-house/internal/config"
	identity "auction-house/internal/identityService"
	listing "auction-house/internal/listingService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup so that os.Exit happens only after them.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		utils.Error("error reading config", map[string]any{"error": err.Error()})
		return 1
	}
	utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	store, err := repository.NewStore(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		utils.Error("failed to open store", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
		return 1
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			utils.Error("failed to close store", map[string]any{"error": cerr.Error()})
		}
	}()

	// wire dependencies
	identitySvc := identity.NewIdentityService(store, cfg.SessionSecret, cfg.SessionTTL)
	router := server.SetupRouter(server.Services{
		Identity: identitySvc,
		Listings: listing.NewListingService(store, store, store),
		Bidding:  bidding.NewBiddingService(store),
		Comments: comment.NewCommentService(store),
	}, server.RouterConfig{
		CookieName:         cfg.CookieName,
		CookieSecure:       cfg.CookieSecure,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &server.Server{}
	serverErr := runHTTPServer(srv, cfg.Port, router)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	if err := waitForShutdown(srv, serverErr, quit); err != nil {
		utils.Error("server stopped", map[string]any{"error": err.Error()})
		return 1
	}
	return 0
}

// runHTTPServer runs the HTTP server in a separate goroutine and reports how it ended.
func runHTTPServer(srv *server.Server, port string, router *gin.Engine) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		utils.Info("starting auction server", map[string]any{"port": port})
		errCh <- srv.Run(port, router)
	}()
	return errCh
}

// waitForShutdown blocks until a signal arrives or the server fails. On a signal
// it lets in-flight requests finish.
func waitForShutdown(srv *server.Server, serverErr <-chan error, quit <-chan os.Signal) error {
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-quit:
	}

	utils.Info("shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
