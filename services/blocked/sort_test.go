package blocked

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func reservation(resNo int, pickup string, days int, reason string) Reservation {
	return Reservation{Booking: rcm.Booking{
		ReservationNo:     rcm.Number(resNo),
		ReservationTypeID: rcm.ReservationTypeMaintenance,
		PickupDateTime:    pickup,
		DropoffDateTime:   pickup,
		RentalDays:        rcm.Number(days),
		AcLastName:        reason,
	}}
}

func TestSortReservations(t *testing.T) {
	list := func() []Reservation {
		return []Reservation{
			reservation(1, "15/01/2026 09:00", 3, ""),
			reservation(2, "14/01/2026 09:00", 1, ""),
			reservation(3, "not a date", 3, ""),
			reservation(4, "2026/1/16", 7, ""),
		}
	}

	testCases := []struct {
		option   SortOption
		expected []string
	}{
		{option: SortDateAsc, expected: []string{"res-3", "res-2", "res-1", "res-4"}},
		{option: SortDateDesc, expected: []string{"res-3", "res-4", "res-1", "res-2"}},
		{option: SortDaysAsc, expected: []string{"res-2", "res-1", "res-3", "res-4"}},
		{option: SortDaysDesc, expected: []string{"res-4", "res-1", "res-3", "res-2"}},
	}
	for _, test := range testCases {
		sorted := list()
		require.NoError(t, SortReservations(sorted, test.option))
		require.Equal(t, test.expected, keys(sorted), string(test.option))
	}

	require.ErrorIs(t, SortReservations(list(), "random"), rcm.ErrValidation)
}

func TestParseSortOption(t *testing.T) {
	opt, err := ParseSortOption("")
	require.NoError(t, err)
	require.Equal(t, SortDateAsc, opt)

	opt, err = ParseSortOption("days-desc")
	require.NoError(t, err)
	require.Equal(t, SortDaysDesc, opt)

	_, err = ParseSortOption("DATE-ASC")
	require.ErrorIs(t, err, rcm.ErrValidation)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, timezone.Location)
	list := []Reservation{
		reservation(1, "14/01/2026 09:00", 1, "Service due"),
		reservation(2, "14/01/2026 18:00", 1, "service, overdue"),
		reservation(3, "15/01/2026 09:00", 1, "Tyres"),
		reservation(4, "13/01/2026 09:00", 1, "Tyres!! replace"),
		reservation(5, "13/01/2026 09:00", 1, "Tyres"),
		reservation(6, "13/01/2026 09:00", 1, "Service"),
		// too short to count
		reservation(7, "13/01/2026 09:00", 1, "AC"),
		reservation(8, "13/01/2026 09:00", 1, "AC"),
		reservation(9, "13/01/2026 09:00", 1, "AC"),
		reservation(10, "13/01/2026 09:00", 1, "AC"),
	}

	stats := Summarize(list, now)
	require.Equal(t, 10, stats.TotalBlocked)
	require.Equal(t, 2, stats.BlockedToday)
	// "Service" (2) and "service" (1) are different words, "Tyres" has 3
	require.Equal(t, "Tyres", stats.TopReason)

	require.Equal(t, Stats{TopReason: "N/A"}, Summarize(nil, now))
}

func TestSummarizeTies(t *testing.T) {
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, timezone.Location)
	list := []Reservation{
		reservation(1, "", 1, "Windscreen chip"),
		reservation(2, "", 1, "Brakes"),
		reservation(3, "", 1, "Windscreen"),
		reservation(4, "", 1, "Brakes"),
	}
	require.Equal(t, "Brakes", Summarize(list, now).TopReason)
}
