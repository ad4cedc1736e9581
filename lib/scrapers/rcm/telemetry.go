package rcm

import (
	"fleetblock-backend/lib/restyutil"
	"fleetblock-backend/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = telemetry.Tracer("fleetblock.lib.scrapers.rcm")
var meter = otel.Meter("fleetblock.lib.scrapers.rcm")

var pagesFetched, _ = meter.Int64Counter("rcm.pages.fetched")
var pagesFailed, _ = meter.Int64Counter("rcm.pages.failed")
var loginAttempts, _ = meter.Int64Counter("rcm.logins")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every client created afterwards dump its
// http messages to `out` while debug logging is enabled.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
