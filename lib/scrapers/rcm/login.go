package rcm

import (
	"bytes"
	"context"
	"fleetblock-backend/lib/htmlutil"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// ASP.NET WebForms field names of the login form
const (
	fieldViewState          = "__VIEWSTATE"
	fieldViewStateGenerator = "__VIEWSTATEGENERATOR"
	fieldEventValidation    = "__EVENTVALIDATION"
	fieldEventTarget        = "__EVENTTARGET"
	fieldEventArgument      = "__EVENTARGUMENT"
	fieldUsername           = "ctl00$MainContent$Username"
	fieldPassword           = "ctl00$MainContent$Password"
	fieldLoginButton        = "ctl00$MainContent$LoginButton"
	loginButtonValue        = "Sign in"
)

// FormTokens are the anti-forgery fields that must be echoed back when
// submitting the login form.
type FormTokens struct {
	ViewState          string
	ViewStateGenerator string
	EventValidation    string
}

func (c *Client) ExtractFormTokens(ctx context.Context) (FormTokens, []string, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractFormTokens")
	defer span.End()

	fail := func(err error) (FormTokens, []string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FormTokens{}, nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.opts.LoginPath)
	if err != nil {
		return fail(fmt.Errorf("%w: fetch login page: %s", ErrTokenExtraction, err.Error()))
	}
	if res.StatusCode() >= 400 {
		return fail(fmt.Errorf("%w: fetch login page: status %d", ErrTokenExtraction, res.StatusCode()))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return fail(fmt.Errorf("%w: parse login page: %s", ErrTokenExtraction, err.Error()))
	}

	tokens := FormTokens{
		ViewState:          htmlutil.InputValue(doc, fieldViewState),
		ViewStateGenerator: htmlutil.InputValue(doc, fieldViewStateGenerator),
		EventValidation:    htmlutil.InputValue(doc, fieldEventValidation),
	}
	if tokens.ViewState == "" || tokens.EventValidation == "" {
		return fail(fmt.Errorf(
			"%w: login page is missing %s or %s",
			ErrTokenExtraction, fieldViewState, fieldEventValidation,
		))
	}

	return tokens, res.Header().Values("Set-Cookie"), nil
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	fail := func(err error) (Session, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))
		return Session{}, err
	}

	if username == "" || password == "" {
		return fail(fmt.Errorf("%w: username and password are required", ErrValidation))
	}
	span.SetAttributes(attribute.String("username", username))

	tokens, initialCookies, err := c.ExtractFormTokens(ctx)
	if err != nil {
		return fail(err)
	}

	res, err := c.request(NewSession(initialCookies)).
		SetContext(ctx).
		SetFormData(map[string]string{
			fieldEventTarget:        "",
			fieldEventArgument:      "",
			fieldViewState:          tokens.ViewState,
			fieldViewStateGenerator: tokens.ViewStateGenerator,
			fieldEventValidation:    tokens.EventValidation,
			fieldUsername:           username,
			fieldPassword:           password,
			fieldLoginButton:        loginButtonValue,
		}).
		Post(c.opts.LoginPath)
	if err != nil {
		return fail(fmt.Errorf("%w: submit login form: %s", ErrAuthentication, err.Error()))
	}
	if res.StatusCode() != http.StatusFound {
		return fail(c.classifyLoginResponse(ctx, res.StatusCode(), res.Body()))
	}

	intermediate := NewSession(initialCookies, res.Header().Values("Set-Cookie"))

	next := c.redirectTarget(ctx, res.Header().Get("Location"))
	slog.DebugContext(ctx, "following login redirect", "url", next)

	landing, err := c.request(intermediate).
		SetContext(ctx).
		Get(next)
	if err != nil {
		return fail(fmt.Errorf("%w: follow login redirect: %s", ErrAuthentication, err.Error()))
	}
	if landing.StatusCode() >= 500 {
		return fail(fmt.Errorf("%w: follow login redirect: status %d", ErrAuthentication, landing.StatusCode()))
	}
	slog.DebugContext(ctx, "login redirect followed", "status", landing.StatusCode())

	session := NewSession(intermediate.Cookies, landing.Header().Values("Set-Cookie"))
	span.SetAttributes(attribute.Int("cookies", len(session.Cookies)))
	loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", true)))
	return session, nil
}

// redirectTarget resolves the Location of the login response, falling back
// to the dashboard when it is missing or points off-site (the session cookies
// must never leave the upstream's host).
func (c *Client) redirectTarget(ctx context.Context, location string) string {
	fallback := c.origin().String() + "/"
	dashboard, err := c.resolve(c.opts.DashboardPath)
	if err == nil {
		fallback = dashboard.String()
	}
	if location == "" {
		return fallback
	}
	target, err := c.resolve(location)
	if err != nil {
		slog.WarnContext(ctx, "unparsable login redirect", "location", location, "err", err)
		return fallback
	}
	if !c.sameHost(target) {
		slog.WarnContext(ctx, "login redirect leaves the site, using dashboard instead", "location", location)
		return fallback
	}
	return target.String()
}

// the upstream has no structured login error, a re-rendered login form
// is the only sign that the credentials were rejected
func (c *Client) classifyLoginResponse(ctx context.Context, status int, body []byte) error {
	preview := string(body)
	if htmlutil.LooksLikeHTML(body) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
		if err == nil {
			if status == http.StatusOK &&
				htmlutil.InputValue(doc, fieldViewState) != "" &&
				htmlutil.HasInput(doc, fieldPassword) {
				return fmt.Errorf("%w: invalid credentials", ErrAuthentication)
			}
			preview = htmlutil.NormalizedText(doc.Find("body"))
		}
	}
	if len(preview) > 200 {
		preview = preview[:200]
	}
	slog.WarnContext(ctx, "login returned an unexpected response", "status", status, "body", preview)
	return fmt.Errorf("%w: unexpected response (status %d)", ErrAuthentication, status)
}
