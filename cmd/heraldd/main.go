// heraldd is the herald delivery daemon: it loads configuration, builds
// the channel registry, and runs the dispatcher and scheduler until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openherald/herald/pkg/app"
	"github.com/openherald/herald/pkg/config"
	"github.com/openherald/herald/pkg/logger"
)

func main() {
	configPath := flag.String("config", "herald.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "heraldd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	container, err := app.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoCF("heraldd", "Daemon starting", map[string]interface{}{
		"channels":  container.Senders.Keys(),
		"schedules": container.Scheduler.Len(),
	})

	container.Start(ctx)
	<-ctx.Done()

	logger.InfoCF("heraldd", "Shutting down", nil)
	container.Stop()
	return nil
}
