package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentPerfStats reports this process's cpu, resident memory and
// goroutine count whenever the meter provider collects, until ctx is done.
func InstrumentPerfStats(ctx context.Context) error {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return err
	}

	meter := otel.Meter("fleetblock.process")
	cpuPercent, err := meter.Float64ObservableGauge("process.cpu.percent")
	if err != nil {
		return err
	}
	rss, err := meter.Int64ObservableGauge("process.memory.rss", metric.WithUnit("By"))
	if err != nil {
		return err
	}
	goroutines, err := meter.Int64ObservableGauge("process.goroutines")
	if err != nil {
		return err
	}

	reg, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		if percent, err := proc.PercentWithContext(ctx, 0); err == nil {
			o.ObserveFloat64(cpuPercent, percent)
		} else {
			slog.WarnContext(ctx, "read process cpu", "err", err)
		}
		if mem, err := proc.MemoryInfoWithContext(ctx); err == nil {
			o.ObserveInt64(rss, int64(mem.RSS))
		}
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		return nil
	}, cpuPercent, rss, goroutines)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		reg.Unregister()
	}()
	return nil
}
