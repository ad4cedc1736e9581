package testutil

import (
	"context"
	"fleetblock-backend/lib/telemetry"
	"fleetblock-backend/lib/timezone"
	"fmt"
	"testing"
	"time"
)

type ServiceParams struct {
	Name string
	// if unspecified, timezone.DefaultLocation is used
	Timezone string
}

// SetupService prepares logging, telemetry and the business timezone for
// the tests of a package.
func SetupService(t testing.TB, params ServiceParams) func() {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	tz := params.Timezone
	if tz == "" {
		tz = timezone.DefaultLocation
	}
	err := timezone.SetLocation(tz)
	if err != nil {
		t.Fatal(err)
	}

	return cleanup
}

// Context returns a context that is cancelled after `timeout` or at the end
// of the test, whichever comes first.
func Context(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
