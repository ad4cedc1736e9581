package restyutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatHeadersRedactsCookies(t *testing.T) {
	headers := http.Header{}
	headers.Set("Cookie", "ASP.NET_SessionId=abc; .ASPXAUTH=def")
	headers.Add("Set-Cookie", "rcm=xyz; path=/; HttpOnly")
	headers.Set("Accept", "*/*")

	require.Equal(
		t,
		"Accept: */*\n"+
			"Cookie: ASP.NET_SessionId=<redacted>; .ASPXAUTH=<redacted>\n"+
			"Set-Cookie: rcm=<redacted>; path=/; HttpOnly",
		formatHeaders(headers),
	)
}
