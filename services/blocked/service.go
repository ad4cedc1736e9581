package blocked

import (
	"context"
	"errors"
	"fleetblock-backend/lib/scrapers/rcm"
	"log/slog"

	"connectrpc.com/connect"
)

// Upstream is the part of rcm.Client the service depends on.
type Upstream interface {
	Login(ctx context.Context, username, password string) (rcm.Session, error)
	FetchCategory(ctx context.Context, session rcm.Session, query rcm.CategoryQuery) (rcm.CategoryPage, error)
	RawGet(ctx context.Context, session rcm.Session, target string) (rcm.RawResponse, error)
}

type Options struct {
	// categories fetched concurrently, DefaultBatchSize if 0
	BatchSize int
	// fetched when a request names none, [DefaultCategory] if empty
	DefaultCategories []int
	// DefaultLocations if empty
	Locations []Location
	// DefaultCategories if empty
	Categories []Category
}

type Service struct {
	upstream          Upstream
	batchSize         int
	defaultCategories []int
	locations         LocationTable
	categories        []Category
}

func NewService(upstream Upstream, options Options) Service {
	s := Service{
		upstream:          upstream,
		batchSize:         options.BatchSize,
		defaultCategories: options.DefaultCategories,
		locations:         options.Locations,
		categories:        options.Categories,
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if len(s.defaultCategories) == 0 {
		s.defaultCategories = []int{DefaultCategory}
	}
	if len(s.locations) == 0 {
		s.locations = DefaultLocations
	}
	if len(s.categories) == 0 {
		s.categories = DefaultCategories
	}
	return s
}

func (s Service) Locations() LocationTable {
	return s.locations
}

func (s Service) Categories() []Category {
	return s.categories
}

// connectError hides upstream details from clients, they are only logged.
func connectError(ctx context.Context, procedure string, err error) error {
	slog.WarnContext(ctx, "request failed", "procedure", procedure, "err", err)
	switch {
	case errors.Is(err, rcm.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, rcm.ErrSessionExpired):
		return connect.NewError(connect.CodeUnauthenticated, errors.New("session expired"))
	case errors.Is(err, rcm.ErrAuthentication), errors.Is(err, rcm.ErrTokenExtraction):
		return connect.NewError(connect.CodeUnauthenticated, errors.New("login failed"))
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

func (s Service) Authenticate(ctx context.Context, req *connect.Request[AuthenticateRequest]) (*connect.Response[AuthenticateResponse], error) {
	session, err := s.upstream.Login(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, connectError(ctx, AuthenticateProcedure, err)
	}
	return connect.NewResponse(&AuthenticateResponse{Cookies: session.Cookies}), nil
}

func (s Service) FetchBlockedVehicles(ctx context.Context, req *connect.Request[FetchBlockedVehiclesRequest]) (*connect.Response[FetchBlockedVehiclesResponse], error) {
	result, err := s.FetchBlocked(ctx, rcm.NewSession(req.Msg.Cookies), FetchParams{
		From:        req.Msg.FromDate,
		To:          req.Msg.ToDate,
		LocationID:  req.Msg.LocationID,
		CategoryIDs: req.Msg.CategoryIDs,
		Sort:        req.Msg.Sort,
	})
	if err != nil {
		return nil, connectError(ctx, FetchBlockedVehiclesProcedure, err)
	}
	return connect.NewResponse(&FetchBlockedVehiclesResponse{FetchResult: result}), nil
}

func (s Service) RawProxyGet(ctx context.Context, req *connect.Request[RawProxyGetRequest]) (*connect.Response[RawProxyGetResponse], error) {
	session := rcm.NewSession(req.Msg.Cookies)
	if session.Empty() {
		return nil, connectError(ctx, RawProxyGetProcedure, errMissingCookies)
	}
	res, err := s.upstream.RawGet(ctx, session, req.Msg.Url)
	if err != nil {
		return nil, connectError(ctx, RawProxyGetProcedure, err)
	}
	return connect.NewResponse(&RawProxyGetResponse{RawResponse: res}), nil
}

func (s Service) ListLocations(ctx context.Context, req *connect.Request[ListLocationsRequest]) (*connect.Response[ListLocationsResponse], error) {
	return connect.NewResponse(&ListLocationsResponse{Locations: s.locations}), nil
}

func (s Service) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return connect.NewResponse(&ListCategoriesResponse{Categories: s.categories}), nil
}
