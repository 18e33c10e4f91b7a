package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Serve    ServeCommand    `cmd:"serve" help:"Start the insight engine server."`
	Generate GenerateCommand `cmd:"generate" help:"Generate a report for a thesis directly against the model."`
	View     ViewCommand     `cmd:"view" help:"Explore reports in the terminal."`
	Batch    BatchCommand    `cmd:"batch" help:"Generate reports for theses stored in Pocketbase."`
	Reports  ReportsCommand  `cmd:"reports" help:"List archived reports, or print or delete one."`
	Version  VersionCommand  `cmd:"version" help:"Print the version of the insight engine."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}
