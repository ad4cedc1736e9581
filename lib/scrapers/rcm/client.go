package rcm

import (
	"crypto/tls"
	"fleetblock-backend/lib/restyutil"
	"fleetblock-backend/lib/telemetry"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl          = "https://bookings.rentalcarmanager.com"
	DefaultLoginPath        = "/account/login.aspx"
	DefaultDashboardPath    = "/dashboard/dashboard.aspx"
	DefaultAvailabilityPath = "/bookingsheet/loadcardata.ashx"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// the availability endpoint returns this many rows per rowno offset
	DefaultPageSize        = 50
	DefaultPageConcurrency = 4
	DefaultTimeout         = 30 * time.Second
)

type ClientOptions struct {
	BaseUrl          string
	LoginPath        string
	DashboardPath    string
	AvailabilityPath string
	UserAgent        string

	// the upstream's certificate chain does not always validate
	InsecureSkipVerify bool
	// per-request timeout
	Timeout time.Duration
	// 0 disables the limiter
	RequestsPerSecond float64

	PageSize        int
	PageConcurrency int
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.LoginPath == "" {
		o.LoginPath = DefaultLoginPath
	}
	if o.DashboardPath == "" {
		o.DashboardPath = DefaultDashboardPath
	}
	if o.AvailabilityPath == "" {
		o.AvailabilityPath = DefaultAvailabilityPath
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PageConcurrency <= 0 {
		o.PageConcurrency = DefaultPageConcurrency
	}
	return o
}

// Client talks to a single rcm site. It is safe for concurrent use and holds
// no session state, every call takes the Session explicitly.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	opts ClientOptions
}

func NewClient(opts ClientOptions) (*Client, error) {
	opts = opts.withDefaults()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("%w: base url must be absolute: %q", ErrValidation, opts.BaseUrl)
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseUrl.String(), "/"))
	// cookies are carried explicitly by the Session, never by a jar
	client.SetCookieJar(nil)

	transport := client.GetClient().Transport
	bypass := cloudflarebp.AddCloudFlareByPass(transport)
	if t, ok := transport.(*http.Transport); ok {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = opts.InsecureSkipVerify
	}
	client.SetTransport(bypass)

	client.SetHeader("user-agent", opts.UserAgent)
	// the login flow needs to see the 302 itself, redirects are never followed
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, tracer)
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		opts:    opts,
	}, nil
}

// PageSize is the row stride used when paginating the availability endpoint.
func (c *Client) PageSize() int {
	return c.opts.PageSize
}

func (c *Client) origin() *url.URL {
	return &url.URL{Scheme: c.BaseUrl.Scheme, Host: c.BaseUrl.Host}
}

// resolve turns a path or url into an absolute url on the upstream's origin,
// relative paths are always treated as origin-relative.
func (c *Client) resolve(target string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return nil, err
	}
	if parsed.IsAbs() {
		return parsed, nil
	}
	if !strings.HasPrefix(parsed.Path, "/") {
		parsed.Path = "/" + parsed.Path
	}
	return c.origin().ResolveReference(parsed), nil
}

func (c *Client) sameHost(u *url.URL) bool {
	return strings.EqualFold(u.Hostname(), c.BaseUrl.Hostname())
}

func (c *Client) request(session Session) *resty.Request {
	req := c.Http.R()
	header := session.Header()
	if header != "" {
		req.SetHeader("Cookie", header)
	}
	return req
}
