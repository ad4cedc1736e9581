package blocked

import (
	"context"
	"errors"
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/timezone"
	"fmt"
	"log/slog"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is how many categories are fetched at the same time.
const DefaultBatchSize = 6

type FetchParams struct {
	// any format rcm.ParseDate accepts
	From string
	To   string
	// AllLocations disables location filtering
	LocationID int
	// empty means the configured default categories
	CategoryIDs []int
	Sort        string
}

type CategoryError struct {
	CategoryID int    `json:"catId"`
	Error      string `json:"error"`
}

type FetchResult struct {
	Data   []Reservation   `json:"data"`
	Errors []CategoryError `json:"errors,omitempty"`
	Stats  Stats           `json:"stats"`
}

type categoryResult struct {
	reservations []Reservation
	err          error
}

// batches splits ids into consecutive chunks of at most size ids.
func batches(ids []int, size int) [][]int {
	if size <= 0 {
		size = 1
	}
	var out [][]int
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

func (s Service) fetchCategory(ctx context.Context, session rcm.Session, params FetchParams, from, to string, categoryID int) categoryResult {
	page, err := s.upstream.FetchCategory(ctx, session, rcm.CategoryQuery{
		CategoryID: categoryID,
		From:       from,
		To:         to,
		LocationID: params.LocationID,
	})
	if err != nil {
		return categoryResult{err: err}
	}
	return categoryResult{
		reservations: Reconcile(categoryID, page, params.LocationID, s.locations),
	}
}

// FetchBlocked fetches the blocked vehicles of every requested category.
// Categories are fetched in sequential batches of BatchSize, a category that
// fails is reported in FetchResult.Errors and never fails the others.
func (s Service) FetchBlocked(ctx context.Context, session rcm.Session, params FetchParams) (FetchResult, error) {
	ctx, span := tracer.Start(ctx, "FetchBlocked")
	defer span.End()

	fail := func(err error) (FetchResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FetchResult{}, err
	}

	if session.Empty() {
		return fail(fmt.Errorf("%w: session cookies are required", rcm.ErrValidation))
	}
	if params.From == "" || params.To == "" {
		return fail(fmt.Errorf("%w: from and to dates are required", rcm.ErrValidation))
	}
	from, err := rcm.NormalizeDate(params.From)
	if err != nil {
		return fail(fmt.Errorf("%w: from date: %s", rcm.ErrValidation, err.Error()))
	}
	to, err := rcm.NormalizeDate(params.To)
	if err != nil {
		return fail(fmt.Errorf("%w: to date: %s", rcm.ErrValidation, err.Error()))
	}
	sortOption, err := ParseSortOption(params.Sort)
	if err != nil {
		return fail(err)
	}

	categories := params.CategoryIDs
	if len(categories) == 0 {
		categories = s.defaultCategories
	}

	runId, err := random.String(8)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.String("run_id", runId),
		attribute.Int("location_id", params.LocationID),
		attribute.IntSlice("categories", categories),
	)

	rounds := batches(categories, s.batchSize)
	results := make([]categoryResult, len(categories))
	offset := 0
	for i, batch := range rounds {
		slog.InfoContext(ctx, "processing batch",
			"run", runId,
			"batch", i+1,
			"of", len(rounds),
			"categories", batch,
		)

		var group errgroup.Group
		for j, categoryID := range batch {
			index := offset + j
			group.Go(func() error {
				results[index] = s.fetchCategory(ctx, session, params, from, to, categoryID)
				return nil
			})
		}
		// category goroutines never return errors
		_ = group.Wait()
		offset += len(batch)
	}

	result := FetchResult{Data: []Reservation{}}
	for i, res := range results {
		categoryID := categories[i]
		if res.err != nil {
			slog.WarnContext(ctx, "failed to fetch category",
				"run", runId,
				"category", categoryID,
				"err", res.err,
			)
			categoryErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.Bool("session_expired", errors.Is(res.err, rcm.ErrSessionExpired)),
			))
			result.Errors = append(result.Errors, CategoryError{
				CategoryID: categoryID,
				Error:      res.err.Error(),
			})
			continue
		}
		result.Data = append(result.Data, res.reservations...)
	}

	err = SortReservations(result.Data, sortOption)
	if err != nil {
		return fail(err)
	}
	result.Stats = Summarize(result.Data, timezone.Now())

	span.SetAttributes(
		attribute.Int("reservations", len(result.Data)),
		attribute.Int("failed_categories", len(result.Errors)),
	)
	slog.InfoContext(ctx, "fetched blocked vehicles",
		"run", runId,
		"reservations", len(result.Data),
		"failed_categories", len(result.Errors),
	)
	return result, nil
}
