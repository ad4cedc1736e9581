package blocked

import (
	"context"
	"fleetblock-backend/lib/scrapers/rcm"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const ServiceName = "fleetblock.v1.BlockedService"

const (
	AuthenticateProcedure         = "/" + ServiceName + "/Authenticate"
	FetchBlockedVehiclesProcedure = "/" + ServiceName + "/FetchBlockedVehicles"
	RawProxyGetProcedure          = "/" + ServiceName + "/RawProxyGet"
	ListLocationsProcedure        = "/" + ServiceName + "/ListLocations"
	ListCategoriesProcedure       = "/" + ServiceName + "/ListCategories"
)

var errMissingCookies = fmt.Errorf("%w: session cookies are required", rcm.ErrValidation)

type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	Cookies []string `json:"cookies"`
}

type FetchBlockedVehiclesRequest struct {
	Cookies     []string `json:"cookies"`
	FromDate    string   `json:"fromDate"`
	ToDate      string   `json:"toDate"`
	LocationID  int      `json:"locationId"`
	CategoryIDs []int    `json:"categoryIds,omitempty"`
	Sort        string   `json:"sort,omitempty"`
}

type FetchBlockedVehiclesResponse struct {
	FetchResult
}

type RawProxyGetRequest struct {
	Cookies []string `json:"cookies"`
	Url     string   `json:"url"`
}

type RawProxyGetResponse struct {
	rcm.RawResponse
}

type ListLocationsRequest struct{}

type ListLocationsResponse struct {
	Locations []Location `json:"locations"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// BlockedServiceHandler is implemented by Service.
type BlockedServiceHandler interface {
	Authenticate(context.Context, *connect.Request[AuthenticateRequest]) (*connect.Response[AuthenticateResponse], error)
	FetchBlockedVehicles(context.Context, *connect.Request[FetchBlockedVehiclesRequest]) (*connect.Response[FetchBlockedVehiclesResponse], error)
	RawProxyGet(context.Context, *connect.Request[RawProxyGetRequest]) (*connect.Response[RawProxyGetResponse], error)
	ListLocations(context.Context, *connect.Request[ListLocationsRequest]) (*connect.Response[ListLocationsResponse], error)
	ListCategories(context.Context, *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error)
}

// NewBlockedServiceHandler builds the http handler serving every procedure
// of the service, mount it on the returned path. Handler options must
// include serviceutil.WithJSONCodec since the messages are plain structs.
func NewBlockedServiceHandler(svc BlockedServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	authenticate := connect.NewUnaryHandler(AuthenticateProcedure, svc.Authenticate, opts...)
	fetchBlockedVehicles := connect.NewUnaryHandler(FetchBlockedVehiclesProcedure, svc.FetchBlockedVehicles, opts...)
	rawProxyGet := connect.NewUnaryHandler(RawProxyGetProcedure, svc.RawProxyGet, opts...)
	listLocations := connect.NewUnaryHandler(ListLocationsProcedure, svc.ListLocations, opts...)
	listCategories := connect.NewUnaryHandler(ListCategoriesProcedure, svc.ListCategories, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthenticateProcedure:
			authenticate.ServeHTTP(w, r)
		case FetchBlockedVehiclesProcedure:
			fetchBlockedVehicles.ServeHTTP(w, r)
		case RawProxyGetProcedure:
			rawProxyGet.ServeHTTP(w, r)
		case ListLocationsProcedure:
			listLocations.ServeHTTP(w, r)
		case ListCategoriesProcedure:
			listCategories.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BlockedServiceClient calls a remote BlockedService.
type BlockedServiceClient struct {
	authenticate         *connect.Client[AuthenticateRequest, AuthenticateResponse]
	fetchBlockedVehicles *connect.Client[FetchBlockedVehiclesRequest, FetchBlockedVehiclesResponse]
	rawProxyGet          *connect.Client[RawProxyGetRequest, RawProxyGetResponse]
	listLocations        *connect.Client[ListLocationsRequest, ListLocationsResponse]
	listCategories       *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
}

func NewBlockedServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BlockedServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return BlockedServiceClient{
		authenticate:         connect.NewClient[AuthenticateRequest, AuthenticateResponse](httpClient, baseURL+AuthenticateProcedure, opts...),
		fetchBlockedVehicles: connect.NewClient[FetchBlockedVehiclesRequest, FetchBlockedVehiclesResponse](httpClient, baseURL+FetchBlockedVehiclesProcedure, opts...),
		rawProxyGet:          connect.NewClient[RawProxyGetRequest, RawProxyGetResponse](httpClient, baseURL+RawProxyGetProcedure, opts...),
		listLocations:        connect.NewClient[ListLocationsRequest, ListLocationsResponse](httpClient, baseURL+ListLocationsProcedure, opts...),
		listCategories:       connect.NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL+ListCategoriesProcedure, opts...),
	}
}

func (c BlockedServiceClient) Authenticate(ctx context.Context, req *connect.Request[AuthenticateRequest]) (*connect.Response[AuthenticateResponse], error) {
	return c.authenticate.CallUnary(ctx, req)
}

func (c BlockedServiceClient) FetchBlockedVehicles(ctx context.Context, req *connect.Request[FetchBlockedVehiclesRequest]) (*connect.Response[FetchBlockedVehiclesResponse], error) {
	return c.fetchBlockedVehicles.CallUnary(ctx, req)
}

func (c BlockedServiceClient) RawProxyGet(ctx context.Context, req *connect.Request[RawProxyGetRequest]) (*connect.Response[RawProxyGetResponse], error) {
	return c.rawProxyGet.CallUnary(ctx, req)
}

func (c BlockedServiceClient) ListLocations(ctx context.Context, req *connect.Request[ListLocationsRequest]) (*connect.Response[ListLocationsResponse], error) {
	return c.listLocations.CallUnary(ctx, req)
}

func (c BlockedServiceClient) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}
