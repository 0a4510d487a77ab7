package main

import (
	"context"
	"log/slog"

	"cyclestats/cmd/cyclestats/commands"
	"cyclestats/lib/serviceutil"
	"cyclestats/lib/telemetry"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	tel, err := telemetry.SetupFromEnv(ctx, "cyclestats")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err.Error())
		}
	}()

	commands.ExecuteContext(ctx)
}
