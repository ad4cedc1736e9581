// Package rcmtest is an in-process imitation of an rcm site: the login form,
// its redirect dance and the paginated availability endpoint.
package rcmtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	LoginPath        = "/account/login.aspx"
	DashboardPath    = "/dashboard/dashboard.aspx"
	AvailabilityPath = "/bookingsheet/loadcardata.ashx"

	ViewState          = "vs-token"
	ViewStateGenerator = "vsg-token"
	EventValidation    = "ev-token"

	SessionCookie   = "ASP.NET_SessionId=sess1"
	AuthCookie      = ".ASPXAUTH=auth1"
	DashboardCookie = "rcm_dashboard=dash1"

	Username = "agent"
	Password = "hunter2"
)

type Options struct {
	// bookings served per category, in row order
	Bookings map[int][]map[string]any
	// cars sent as metadata with every page of a category
	Cars map[int][]map[string]any
	// overrides the totcars value of a category, by default it is the number of bookings
	TotalRows map[int]int
	// categories answered with a 500
	FailCategories map[int]bool
	// rowno offsets answered with a 500 (for every category)
	FailRows map[int]bool
	// categories answered with an empty body
	EmptyCategories map[int]bool

	// Location of the login 302, "" omits the header
	LoginLocation string
	// prefix LoginLocation with the server's own origin
	AbsoluteLocation bool
	// serve a login page without the anti-forgery fields
	OmitTokens bool
	PageSize   int
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Cookie string
}

type Server struct {
	*httptest.Server

	opts     Options
	lock     sync.Mutex
	requests []Request
}

// New starts a fake site, it is closed when the test ends.
func New(t testing.TB, opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	s := &Server{opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, s.login)
	mux.HandleFunc(DashboardPath, s.dashboard)
	mux.HandleFunc(AvailabilityPath, s.availability)
	mux.HandleFunc("/", s.page)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Cookie: r.Header.Get("Cookie"),
		}
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				req.Form = r.PostForm
			}
		}
		s.lock.Lock()
		s.requests = append(s.requests, req)
		s.lock.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Requests returns every request received so far, optionally only the ones
// made to `path`.
func (s *Server) Requests(path string) []Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	var out []Request
	for _, r := range s.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func hasCookie(r *http.Request, cookie string) bool {
	for _, pair := range strings.Split(r.Header.Get("Cookie"), ";") {
		if strings.TrimSpace(pair) == cookie {
			return true
		}
	}
	return false
}

func (s *Server) loginForm(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	hidden := ""
	if !s.opts.OmitTokens {
		hidden = fmt.Sprintf(`
	<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="%s" />
	<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="%s" />
	<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="%s" />`,
			ViewState, ViewStateGenerator, EventValidation,
		)
	}
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<body>
<form method="post" action="./login.aspx" id="form1">%s
	<span class="error">%s</span>
	<input name="ctl00$MainContent$Username" type="text" />
	<input name="ctl00$MainContent$Password" type="password" />
	<input type="submit" name="ctl00$MainContent$LoginButton" value="Sign in" />
</form>
</body>
</html>`, hidden, message)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		w.Header().Add("Set-Cookie", SessionCookie+"; path=/; HttpOnly; SameSite=Lax")
		s.loginForm(w, "")
		return
	}

	form := r.PostForm
	if form.Get("__VIEWSTATE") != ViewState ||
		form.Get("__EVENTVALIDATION") != EventValidation ||
		!hasCookie(r, SessionCookie) {
		http.Error(w, "invalid postback", http.StatusInternalServerError)
		return
	}
	if form.Get("ctl00$MainContent$Username") != Username ||
		form.Get("ctl00$MainContent$Password") != Password {
		s.loginForm(w, "Invalid username or password.")
		return
	}

	w.Header().Add("Set-Cookie", AuthCookie+"; path=/; HttpOnly")
	w.Header().Add("Set-Cookie", SessionCookie+"; path=/; HttpOnly; SameSite=Lax")
	if s.opts.LoginLocation != "" {
		location := s.opts.LoginLocation
		if s.opts.AbsoluteLocation {
			location = "http://" + r.Host + location
		}
		w.Header().Set("Location", location)
	}
	w.WriteHeader(http.StatusFound)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	if !hasCookie(r, AuthCookie) {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	w.Header().Add("Set-Cookie", DashboardCookie+"; path=/")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!DOCTYPE html><html><body>dashboard</body></html>")
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "page %s", r.URL.Path)
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	if !hasCookie(r, AuthCookie) {
		s.loginForm(w, "")
		return
	}

	query := r.URL.Query()
	category, err := strconv.Atoi(query.Get("catid"))
	if err != nil {
		http.Error(w, "bad catid", http.StatusBadRequest)
		return
	}
	rowno, err := strconv.Atoi(query.Get("rowno"))
	if err != nil || rowno < 1 {
		http.Error(w, "bad rowno", http.StatusBadRequest)
		return
	}

	if s.opts.FailCategories[category] || s.opts.FailRows[rowno] {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if s.opts.EmptyCategories[category] {
		w.WriteHeader(http.StatusOK)
		return
	}

	bookings := s.opts.Bookings[category]
	total, ok := s.opts.TotalRows[category]
	if !ok {
		total = len(bookings)
	}

	start := rowno - 1
	end := start + s.opts.PageSize
	if start > len(bookings) {
		start = len(bookings)
	}
	if end > len(bookings) {
		end = len(bookings)
	}
	pageBookings := bookings[start:end]
	if pageBookings == nil {
		pageBookings = []map[string]any{}
	}
	cars := s.opts.Cars[category]
	if cars == nil {
		cars = []map[string]any{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"rcmbooking": pageBookings,
		"rcmcarsize": cars,
		// the upstream sends its numbers as strings
		"rcmcardata": []map[string]any{{"totcars": strconv.Itoa(total)}},
	})
}

// Bookings generates `count` maintenance bookings for a category with
// reservation numbers category*10000+1, category*10000+2 and so on.
func Bookings(category, count int, location string) []map[string]any {
	out := make([]map[string]any, count)
	for i := range out {
		out[i] = map[string]any{
			"reservationno":     strconv.Itoa(category*10000 + i + 1),
			"resbufferno":       0,
			"reservationtypeid": "3",
			"pickupdatetime":    "14/01/2026 10:00:00",
			"dropoffdatetime":   "16/01/2026 10:00:00",
			"rentaldays":        2,
			"pickuplocation":    location,
			"dropofflocation":   location,
			"carid":             category*100 + i%7,
			"registrationno":    fmt.Sprintf("REG%03d", i+1),
			"aclastname":        "Service due",
			"isdonotmove":       i%2 == 0,
		}
	}
	return out
}
