package blocked

import (
	"fleetblock-backend/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = telemetry.Tracer("fleetblock.services.blocked")
var meter = otel.Meter("fleetblock.services.blocked")

var categoryErrors, _ = meter.Int64Counter("blocked.category.errors")
