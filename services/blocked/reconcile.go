package blocked

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/timezone"
	"log/slog"
	"time"
)

// Reservation is a maintenance booking enriched with the details of the
// vehicle it blocks.
type Reservation struct {
	rcm.Booking
	CategoryID int `json:"categoryid"`
	// nil when the vehicle is not in the category's metadata
	CarDetails *rcm.CarDetails `json:"carDetails"`
}

// Reconcile turns the raw rows of one category into blocked reservations:
// maintenance rows only, one per booking key (first wins), optionally
// restricted to a location, joined with their vehicle metadata.
func Reconcile(categoryID int, page rcm.CategoryPage, locationID int, locations LocationTable) []Reservation {
	code := ""
	filter := locationID != AllLocations
	if filter {
		var ok bool
		code, ok = locations.Code(locationID)
		if !ok {
			slog.Warn("unknown location id, no reservation can match it", "location_id", locationID, "category", categoryID)
			return []Reservation{}
		}
	}

	cars := make(map[rcm.Number]*rcm.CarDetails, len(page.Cars))
	for i := range page.Cars {
		car := page.Cars[i]
		if _, exists := cars[car.CarID]; !exists {
			cars[car.CarID] = &car
		}
	}

	seen := map[string]struct{}{}
	out := []Reservation{}
	for _, booking := range page.Bookings {
		if !booking.IsMaintenance() {
			continue
		}
		key := booking.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		// a location configured without a code matches nothing
		if filter && (code == "" || booking.PickupLocation != code && booking.DropoffLocation != code) {
			continue
		}

		out = append(out, Reservation{
			Booking:    booking,
			CategoryID: categoryID,
			CarDetails: cars[booking.CarID],
		})
	}
	return out
}

// Pickup returns the parsed pickup time, ok is false when it is unparsable.
func (r Reservation) Pickup() (time.Time, bool) {
	t, err := rcm.ParseDate(r.PickupDateTime)
	return t, err == nil
}

func (r Reservation) Dropoff() (time.Time, bool) {
	t, err := rcm.ParseDate(r.DropoffDateTime)
	return t, err == nil
}

// BlockedOn reports whether the reservation's [pickup, dropoff] range
// overlaps the calendar day of `day` (in the business timezone).
func (r Reservation) BlockedOn(day time.Time) bool {
	pickup, ok := r.Pickup()
	if !ok {
		return false
	}
	dropoff, ok := r.Dropoff()
	if !ok {
		return false
	}
	start, end := timezone.DayBounds(day.In(timezone.Location))
	return !pickup.After(end) && !dropoff.Before(start)
}
