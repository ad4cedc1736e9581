package blocked

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fmt"
	"sort"
)

type SortOption string

const (
	SortDateAsc  SortOption = "date-asc"
	SortDateDesc SortOption = "date-desc"
	SortDaysAsc  SortOption = "days-asc"
	SortDaysDesc SortOption = "days-desc"
)

var SortOptions = []SortOption{SortDateAsc, SortDateDesc, SortDaysAsc, SortDaysDesc}

// ParseSortOption validates a sort option, "" means SortDateAsc.
func ParseSortOption(text string) (SortOption, error) {
	if text == "" {
		return SortDateAsc, nil
	}
	for _, opt := range SortOptions {
		if string(opt) == text {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort option %q", rcm.ErrValidation, text)
}

type pickupKey struct {
	ok bool
	t  int64
}

// SortReservations sorts the list in place. Reservations with unparsable
// pickup dates come first when sorting by date.
func SortReservations(list []Reservation, option SortOption) error {
	switch option {
	case SortDateAsc, SortDateDesc:
		keys := make(map[string]pickupKey, len(list))
		for _, r := range list {
			t, ok := r.Pickup()
			keys[r.PickupDateTime] = pickupKey{ok: ok, t: t.UnixNano()}
		}
		desc := option == SortDateDesc
		sort.SliceStable(list, func(i, j int) bool {
			a := keys[list[i].PickupDateTime]
			b := keys[list[j].PickupDateTime]
			if a.ok != b.ok {
				return !a.ok
			}
			if desc {
				return a.t > b.t
			}
			return a.t < b.t
		})
	case SortDaysAsc:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].RentalDays < list[j].RentalDays
		})
	case SortDaysDesc:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].RentalDays > list[j].RentalDays
		})
	default:
		return fmt.Errorf("%w: unknown sort option %q", rcm.ErrValidation, option)
	}
	return nil
}
