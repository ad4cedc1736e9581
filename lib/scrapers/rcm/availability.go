package rcm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fleetblock-backend/lib/htmlutil"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ReservationTypeMaintenance marks a booking that blocks the vehicle for maintenance.
const ReservationTypeMaintenance = 3

// Booking is one availability row of the booking sheet.
type Booking struct {
	ReservationNo            Number `json:"reservationno"`
	ResBufferNo              Number `json:"resbufferno"`
	ReservationTypeID        Number `json:"reservationtypeid"`
	PickupDateTime           string `json:"pickupdatetime"`
	DropoffDateTime          string `json:"dropoffdatetime"`
	RentalDays               Number `json:"rentaldays"`
	PickupLocation           string `json:"pickuplocation"`
	DropoffLocation          string `json:"dropofflocation"`
	CarID                    Number `json:"carid"`
	RegistrationNo           string `json:"registrationno"`
	CurrentRcmRegistrationNo string `json:"currentrcmregistrationno"`
	// usually holds the maintenance reason for blocked bookings
	AcLastName  string `json:"aclastname"`
	IsDoNotMove Flag   `json:"isdonotmove"`
}

// Key is the identity of a booking: its reservation number once one is
// assigned, its buffer number before that.
func (b Booking) Key() string {
	if b.ReservationNo > 0 {
		return "res-" + strconv.FormatInt(int64(b.ReservationNo), 10)
	}
	return "buf-" + strconv.FormatInt(int64(b.ResBufferNo), 10)
}

func (b Booking) IsMaintenance() bool {
	return b.ReservationTypeID == ReservationTypeMaintenance
}

// CarDetails is the vehicle metadata sent next to the booking rows.
type CarDetails struct {
	CarID   Number `json:"carid"`
	Make    string `json:"make"`
	Model   string `json:"model"`
	Year    Number `json:"year"`
	Colour  string `json:"colour"`
	FleetNo string `json:"fleetno"`
	Size    string `json:"size"`
	Rego    string `json:"rego"`
}

type carData struct {
	TotalCars Number `json:"totcars"`
}

type availabilityResponse struct {
	Bookings []Booking    `json:"rcmbooking"`
	Cars     []CarDetails `json:"rcmcarsize"`
	CarData  []carData    `json:"rcmcardata"`
}

func (r availabilityResponse) totalRows() int {
	if len(r.CarData) == 0 {
		return 0
	}
	return r.CarData[0].TotalCars.Int()
}

type CategoryQuery struct {
	CategoryID int
	// dd/MM/yyyy
	From string
	// dd/MM/yyyy
	To string
	// 0 means all locations
	LocationID int
}

// CategoryPage is everything fetched for one category.
type CategoryPage struct {
	Bookings []Booking
	// metadata of the first page only, it is not repaginated
	Cars []CarDetails
	// the totcars value reported by the first page
	TotalRows int
	// number of supplementary pages requested / lost
	PagesRequested int
	PagesFailed    int
}

// SupplementaryRows returns the rowno offsets to request after the first
// page. `total` is treated as the upper bound of the 1-based row index, so
// pages start at 1+pageSize and advance by pageSize while <= total.
func SupplementaryRows(total, pageSize int) []int {
	if pageSize <= 0 {
		return nil
	}
	var rows []int
	for row := 1 + pageSize; row <= total; row += pageSize {
		rows = append(rows, row)
	}
	return rows
}

func (c *Client) fetchRows(ctx context.Context, session Session, query CategoryQuery, rowno int) (availabilityResponse, bool, error) {
	res, err := c.request(session).
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"mode":    "availability",
			"catid":   strconv.Itoa(query.CategoryID),
			"rowno":   strconv.Itoa(rowno),
			"from":    query.From,
			"to":      query.To,
			"locid":   strconv.Itoa(query.LocationID),
			"ctypeid": "0",
			// cache buster
			"q": strconv.FormatInt(time.Now().UnixMilli(), 10),
		}).
		Get(c.opts.AvailabilityPath)
	if err != nil {
		return availabilityResponse{}, false, err
	}

	body := res.Body()
	status := res.StatusCode()
	if status >= 300 && status < 400 {
		location := strings.ToLower(res.Header().Get("Location"))
		if strings.Contains(location, "login") {
			return availabilityResponse{}, false, ErrSessionExpired
		}
		return availabilityResponse{}, false, fmt.Errorf("unexpected redirect (status %d)", status)
	}
	if htmlutil.LooksLikeHTML(body) {
		return availabilityResponse{}, false, ErrSessionExpired
	}
	if status >= 400 {
		return availabilityResponse{}, false, fmt.Errorf("status %d", status)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return availabilityResponse{}, true, nil
	}

	var out availabilityResponse
	err = json.Unmarshal(body, &out)
	if err != nil {
		return availabilityResponse{}, false, fmt.Errorf("decode response: %w", err)
	}
	return out, false, nil
}

// FetchCategory fetches every availability row of one category. The first
// page decides how many more pages exist, those are then fetched
// concurrently and a failed one only loses its own rows.
func (c *Client) FetchCategory(ctx context.Context, session Session, query CategoryQuery) (CategoryPage, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCategory")
	defer span.End()
	span.SetAttributes(
		attribute.Int("category_id", query.CategoryID),
		attribute.Int("location_id", query.LocationID),
	)

	first, empty, err := c.fetchRows(ctx, session, query, 1)
	if err != nil {
		if !errors.Is(err, ErrSessionExpired) {
			err = fmt.Errorf("%w: category %d: %s", ErrCategoryFetch, query.CategoryID, err.Error())
		} else {
			slog.WarnContext(ctx, "received html instead of json, session likely expired", "category", query.CategoryID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CategoryPage{}, err
	}
	pagesFetched.Add(ctx, 1)
	if empty {
		slog.WarnContext(ctx, "no data in response", "category", query.CategoryID)
		return CategoryPage{}, nil
	}

	page := CategoryPage{
		Bookings:  first.Bookings,
		Cars:      first.Cars,
		TotalRows: first.totalRows(),
	}
	rows := SupplementaryRows(page.TotalRows, c.opts.PageSize)
	page.PagesRequested = len(rows)
	slog.DebugContext(ctx, "category first page",
		"category", query.CategoryID,
		"total_rows", page.TotalRows,
		"supplementary_pages", len(rows),
	)

	var lock sync.Mutex
	var group errgroup.Group
	group.SetLimit(c.opts.PageConcurrency)
	for _, row := range rows {
		group.Go(func() error {
			res, _, err := c.fetchRows(ctx, session, query, row)
			if err != nil {
				err = fmt.Errorf("%w: category %d row %d: %s", ErrPageFetch, query.CategoryID, row, err.Error())
				slog.WarnContext(ctx, "failed to fetch page", "err", err)
				span.AddEvent("page failed", traceAttrs(row, err))
				pagesFailed.Add(ctx, 1, metric.WithAttributes(attribute.Int("category_id", query.CategoryID)))

				lock.Lock()
				page.PagesFailed++
				lock.Unlock()
				return nil
			}
			pagesFetched.Add(ctx, 1)

			lock.Lock()
			page.Bookings = append(page.Bookings, res.Bookings...)
			lock.Unlock()
			return nil
		})
	}
	// page goroutines never return errors
	_ = group.Wait()

	span.SetAttributes(
		attribute.Int("bookings", len(page.Bookings)),
		attribute.Int("pages_failed", page.PagesFailed),
	)
	slog.DebugContext(ctx, "category fetched",
		"category", query.CategoryID,
		"bookings", len(page.Bookings),
		"pages_failed", page.PagesFailed,
	)
	return page, nil
}

func traceAttrs(row int, err error) trace.EventOption {
	return trace.WithAttributes(
		attribute.Int("rowno", row),
		attribute.String("error", err.Error()),
	)
}
