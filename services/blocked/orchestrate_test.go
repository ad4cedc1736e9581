package blocked

import (
	"context"
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/testutil"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	lock sync.Mutex
	// category id -> page
	pages map[int]rcm.CategoryPage
	fail  map[int]error
	delay time.Duration

	queries     []rcm.CategoryQuery
	inFlight    int
	maxInFlight int
}

func (f *fakeUpstream) Login(ctx context.Context, username, password string) (rcm.Session, error) {
	if username == "" || password == "" {
		return rcm.Session{}, fmt.Errorf("%w: missing credentials", rcm.ErrValidation)
	}
	if password != "secret" {
		return rcm.Session{}, fmt.Errorf("%w: invalid credentials", rcm.ErrAuthentication)
	}
	return rcm.NewSession([]string{"a=1", "b=2"}), nil
}

func (f *fakeUpstream) FetchCategory(ctx context.Context, session rcm.Session, query rcm.CategoryQuery) (rcm.CategoryPage, error) {
	f.lock.Lock()
	f.queries = append(f.queries, query)
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.lock.Unlock()

	time.Sleep(f.delay)

	f.lock.Lock()
	f.inFlight--
	f.lock.Unlock()

	if err := f.fail[query.CategoryID]; err != nil {
		return rcm.CategoryPage{}, err
	}
	return f.pages[query.CategoryID], nil
}

func (f *fakeUpstream) RawGet(ctx context.Context, session rcm.Session, target string) (rcm.RawResponse, error) {
	if target == "https://elsewhere.example.com" {
		return rcm.RawResponse{}, fmt.Errorf("%w: wrong host", rcm.ErrValidation)
	}
	return rcm.RawResponse{Status: 200, ContentType: "text/html", Body: "<html>" + target + "</html>"}, nil
}

func categoryPage(category int, count int) rcm.CategoryPage {
	var page rcm.CategoryPage
	for i := 0; i < count; i++ {
		b := booking(category*100+i+1, 0, 3, category, "SYD", "SYD")
		b.PickupDateTime = fmt.Sprintf("%02d/01/2026 08:00", i+1)
		page.Bookings = append(page.Bookings, b)
	}
	page.Cars = []rcm.CarDetails{{CarID: rcm.Number(category), Model: fmt.Sprint("model ", category)}}
	return page
}

var session = rcm.NewSession([]string{"ASP.NET_SessionId=x", ".ASPXAUTH=y"})

func TestFetchBlockedBatchErrorIsolation(t *testing.T) {
	cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "services/blocked"})
	defer cleanup()

	upstream := &fakeUpstream{
		pages: map[int]rcm.CategoryPage{
			1: categoryPage(1, 2),
			3: categoryPage(3, 1),
		},
		fail: map[int]error{
			2: fmt.Errorf("%w: category 2: status 500", rcm.ErrCategoryFetch),
			4: rcm.ErrSessionExpired,
		},
	}
	service := NewService(upstream, Options{})

	result, err := service.FetchBlocked(testutil.Context(t, 10*time.Second), session, FetchParams{
		From:        "2026-01-14",
		To:          "21/01/2026",
		LocationID:  9,
		CategoryIDs: []int{1, 2, 3, 4},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"res-101", "res-301", "res-102"}, keys(result.Data))
	require.Equal(t, []CategoryError{
		{CategoryID: 2, Error: "category fetch failed: category 2: status 500"},
		{CategoryID: 4, Error: "session expired"},
	}, result.Errors)
	require.Equal(t, 3, result.Stats.TotalBlocked)

	for _, r := range result.Data {
		require.NotNil(t, r.CarDetails)
		require.Equal(t, r.CategoryID, r.CarDetails.CarID.Int())
	}

	// dates reach the upstream normalized
	for _, q := range upstream.queries {
		require.Equal(t, "14/01/2026", q.From)
		require.Equal(t, "21/01/2026", q.To)
		require.Equal(t, 9, q.LocationID)
	}
}

func TestFetchBlockedBatches(t *testing.T) {
	upstream := &fakeUpstream{delay: 20 * time.Millisecond}
	service := NewService(upstream, Options{BatchSize: 3})

	categories := []int{1, 2, 3, 4, 5, 6, 7}
	result, err := service.FetchBlocked(testutil.Context(t, 10*time.Second), session, FetchParams{
		From:        "14/01/2026",
		To:          "21/01/2026",
		CategoryIDs: categories,
	})
	require.NoError(t, err)
	require.Empty(t, result.Data)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Data)

	require.Len(t, upstream.queries, len(categories))
	require.LessOrEqual(t, upstream.maxInFlight, 3)

	// batches are strictly sequential: every id of batch n is queried before any of batch n+1
	batchOf := func(id int) int { return (id - 1) / 3 }
	for i := 1; i < len(upstream.queries); i++ {
		require.LessOrEqual(t,
			batchOf(upstream.queries[i-1].CategoryID),
			batchOf(upstream.queries[i].CategoryID),
		)
	}
}

func TestFetchBlockedDefaults(t *testing.T) {
	upstream := &fakeUpstream{pages: map[int]rcm.CategoryPage{
		DefaultCategory: categoryPage(DefaultCategory, 3),
		12:              categoryPage(12, 1),
	}}
	ctx := testutil.Context(t, 10*time.Second)

	result, err := NewService(upstream, Options{}).FetchBlocked(ctx, session, FetchParams{
		From: "14/01/2026",
		To:   "21/01/2026",
		Sort: string(SortDateDesc),
	})
	require.NoError(t, err)
	require.Len(t, upstream.queries, 1)
	require.Equal(t, DefaultCategory, upstream.queries[0].CategoryID)
	require.Equal(t, []string{"res-4703", "res-4702", "res-4701"}, keys(result.Data))

	upstream.queries = nil
	_, err = NewService(upstream, Options{DefaultCategories: []int{12}}).FetchBlocked(ctx, session, FetchParams{
		From: "14/01/2026",
		To:   "21/01/2026",
	})
	require.NoError(t, err)
	require.Equal(t, 12, upstream.queries[0].CategoryID)
}

func TestFetchBlockedValidation(t *testing.T) {
	upstream := &fakeUpstream{}
	service := NewService(upstream, Options{})
	ctx := testutil.Context(t, 10*time.Second)

	testCases := []struct {
		name    string
		session rcm.Session
		params  FetchParams
	}{
		{name: "no session", session: rcm.Session{}, params: FetchParams{From: "14/01/2026", To: "15/01/2026"}},
		{name: "no from", session: session, params: FetchParams{To: "15/01/2026"}},
		{name: "bad to", session: session, params: FetchParams{From: "14/01/2026", To: "tomorrow"}},
		{name: "bad sort", session: session, params: FetchParams{From: "14/01/2026", To: "15/01/2026", Sort: "price"}},
	}
	for _, test := range testCases {
		_, err := service.FetchBlocked(ctx, test.session, test.params)
		require.ErrorIs(t, err, rcm.ErrValidation, test.name)
	}
	require.Empty(t, upstream.queries)
}

func TestBatches(t *testing.T) {
	require.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches([]int{1, 2, 3, 4, 5}, 2))
	require.Equal(t, [][]int{{1, 2, 3}}, batches([]int{1, 2, 3}, 6))
	require.Nil(t, batches(nil, 6))
	require.Len(t, batches(make([]int, 13), DefaultBatchSize), 3)
}
