package blocked

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/timezone"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func booking(resNo, bufNo, typeID int, carID int, pickup, dropoff string) rcm.Booking {
	return rcm.Booking{
		ReservationNo:     rcm.Number(resNo),
		ResBufferNo:       rcm.Number(bufNo),
		ReservationTypeID: rcm.Number(typeID),
		CarID:             rcm.Number(carID),
		PickupLocation:    pickup,
		DropoffLocation:   dropoff,
		PickupDateTime:    "14/01/2026 10:00:00",
		DropoffDateTime:   "16/01/2026 10:00:00",
	}
}

func TestReconcile(t *testing.T) {
	corolla := rcm.CarDetails{CarID: 1, Make: "Toyota", Model: "Corolla"}
	page := rcm.CategoryPage{
		Bookings: []rcm.Booking{
			booking(100, 0, 3, 1, "SYD", "SYD"),
			// rental, not blocked
			booking(101, 0, 1, 1, "SYD", "SYD"),
			// duplicate of the first row, first one wins
			booking(100, 0, 3, 2, "MEL", "MEL"),
			booking(0, 7, 3, 2, "MEL", "SYD"),
			booking(0, 7, 3, 1, "SYD", "SYD"),
			booking(0, 8, 3, 9, "BNE", "BNE"),
		},
		Cars: []rcm.CarDetails{corolla},
	}

	all := Reconcile(47, page, AllLocations, DefaultLocations)
	require.Len(t, all, 3)
	require.Equal(t, []string{"res-100", "buf-7", "buf-8"}, keys(all))
	require.Equal(t, &corolla, all[0].CarDetails)
	require.Nil(t, all[1].CarDetails)
	for _, r := range all {
		require.Equal(t, 47, r.CategoryID)
	}

	// 9 is SYD, matched by pickup or dropoff
	sydney := Reconcile(47, page, 9, DefaultLocations)
	require.Equal(t, []string{"res-100", "buf-7"}, keys(sydney))

	brisbane := Reconcile(47, page, 2, DefaultLocations)
	require.Equal(t, []string{"buf-8"}, keys(brisbane))

	// unknown location ids match nothing
	require.Empty(t, Reconcile(47, page, 999, DefaultLocations))
}

func TestReconcileLocationWithoutCode(t *testing.T) {
	page := rcm.CategoryPage{
		Bookings: []rcm.Booking{
			booking(1, 0, 3, 1, "SYD", "SYD"),
			booking(2, 0, 3, 1, "", ""),
		},
	}
	locations := LocationTable{{ID: 20, Name: "Depot"}}

	require.Empty(t, Reconcile(47, page, 20, locations))
	require.Len(t, Reconcile(47, page, AllLocations, locations), 2)
}

func TestReconcileIdempotent(t *testing.T) {
	page := rcm.CategoryPage{
		Bookings: []rcm.Booking{
			booking(1, 0, 3, 1, "SYD", "SYD"),
			booking(1, 0, 3, 1, "SYD", "SYD"),
			booking(2, 0, 3, 5, "PER", "SYD"),
			booking(0, 3, 3, 1, "SYD", "ADL"),
		},
		Cars: []rcm.CarDetails{{CarID: 1, Rego: "ABC123"}},
	}
	first := Reconcile(12, page, 9, DefaultLocations)

	var again rcm.CategoryPage
	again.Cars = page.Cars
	for _, r := range first {
		again.Bookings = append(again.Bookings, r.Booking)
	}
	second := Reconcile(12, again, 9, DefaultLocations)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reconcile is not idempotent (-first +second):\n%s", diff)
	}
}

func TestReconcileEmpty(t *testing.T) {
	out := Reconcile(47, rcm.CategoryPage{}, AllLocations, DefaultLocations)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestBlockedOn(t *testing.T) {
	tz := timezone.Location
	r := Reservation{Booking: booking(1, 0, 3, 1, "SYD", "SYD")}

	require.False(t, r.BlockedOn(time.Date(2026, 1, 13, 23, 59, 0, 0, tz)))
	// pickup is at 10:00 but the whole day counts
	require.True(t, r.BlockedOn(time.Date(2026, 1, 14, 1, 0, 0, 0, tz)))
	require.True(t, r.BlockedOn(time.Date(2026, 1, 15, 12, 0, 0, 0, tz)))
	require.True(t, r.BlockedOn(time.Date(2026, 1, 16, 23, 0, 0, 0, tz)))
	require.False(t, r.BlockedOn(time.Date(2026, 1, 17, 0, 0, 0, 0, tz)))

	r.DropoffDateTime = "soon"
	require.False(t, r.BlockedOn(time.Date(2026, 1, 15, 12, 0, 0, 0, tz)))
}

func keys(list []Reservation) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Key()
	}
	return out
}
