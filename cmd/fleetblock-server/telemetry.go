package main

import (
	"context"
	"fleetblock-backend/lib/restyutil"
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/serviceutil"
	"fleetblock-backend/lib/telemetry"
	"log/slog"
	"path/filepath"
	"time"
)

func InitTelemetry(ctx context.Context, verbose bool) func() {
	telemetry.InitSlog(verbose)

	t, err := telemetry.SetupFromEnv(ctx, "fleetblock-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	err = telemetry.InstrumentPerfStats(ctx)
	if err != nil {
		slog.Warn("process stats unavailable", "err", err)
	}

	if verbose {
		out, err := restyutil.NewFilesystemOutput(filepath.Join(".dev", "resty", "rcm"))
		if err != nil {
			serviceutil.Fatal("create resty output", err)
		}
		rcm.SetRestyInstrumentOutput(out)
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t.Shutdown(shutdownCtx)
	}
}
