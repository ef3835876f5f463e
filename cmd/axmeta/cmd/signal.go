package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbsmedya/axmeta/internal/logger"
)

// shutdownContext returns a child of parent that is cancelled on SIGINT or
// SIGTERM. The signal is logged before cancelling. Calling the returned
// cancel stops listening for signals.
func shutdownContext(parent context.Context, log *logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Infof("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
