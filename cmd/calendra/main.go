// Command calendra is the CLI entrypoint: a goal-driven calendar
// scheduler. It loads configuration, wires logging and the scheduling
// service's infrastructure, and hands control to cobra.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/calendraio/calendra/adapter/cli"
	"github.com/calendraio/calendra/adapter/cli/schedule"
	"github.com/calendraio/calendra/pkg/config"
	"github.com/calendraio/calendra/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logLevel := observability.LogLevelInfo
	if cfg.IsDevelopment() {
		logLevel = observability.LogLevelDebug
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       logLevel,
		Format:      observability.LogFormatText,
		Output:      os.Stderr,
		ServiceName: "calendra",
	})
	cli.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	metrics := observability.NewInMemoryMetrics()

	app, err := cli.NewApp(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	cli.SetApp(app)

	cli.AddCommand(schedule.Cmd)
	cli.Execute()
}
