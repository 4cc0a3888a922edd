package main

import (
	"context"
	"log/slog"

	"boca-cli/cmd/boca-cli/commands"
	"boca-cli/internal/components/telemetry"
)

func main() {
	ctx := context.Background()
	shutdown, err := telemetry.SetupTracing(ctx, "boca-cli")
	if err != nil {
		slog.Warn("tracing disabled", "err", err)
	}
	code := commands.ExecuteContext(ctx)
	err = shutdown(ctx)
	if err != nil {
		slog.Warn("flush traces", "err", err)
	}
	commands.Exit(code)
}
