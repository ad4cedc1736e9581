package serviceutil

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

var teapot = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestRequestLogger(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&out, nil))
	h := chimiddleware.RequestID(RequestLogger(logger)(teapot))

	req := httptest.NewRequest(http.MethodPost, "/fleetblock.v1.BlockedService/ListLocations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	line := out.String()
	require.Contains(t, line, `"status":418`)
	require.Contains(t, line, `"path":"/fleetblock.v1.BlockedService/ListLocations"`)
	require.Contains(t, line, `"request_id":"`)
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(teapot)

	req := httptest.NewRequest(http.MethodOptions, "/fleetblock.v1.BlockedService/Authenticate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "connect-protocol-version,content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Less(t, rec.Code, 300)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/fleetblock.v1.BlockedService/Authenticate", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
