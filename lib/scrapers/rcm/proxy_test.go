package rcm

import (
	"fleetblock-backend/lib/scrapers/rcm/rcmtest"
	"fleetblock-backend/lib/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRawGet(t *testing.T) {
	client, server := setup(t, rcmtest.Options{})
	ctx := testutil.Context(t, 10*time.Second)
	session := NewSession([]string{rcmtest.SessionCookie, rcmtest.AuthCookie})

	res, err := client.RawGet(ctx, session, "reports/fleet.aspx?x=1")
	require.NoError(t, err)
	require.Equal(t, 200, res.Status)
	require.Contains(t, res.ContentType, "text/plain")
	require.Equal(t, "page /reports/fleet.aspx", res.Body)

	res, err = client.RawGet(ctx, session, server.URL+"/other.aspx")
	require.NoError(t, err)
	require.Equal(t, "page /other.aspx", res.Body)

	requests := server.Requests("")
	require.Len(t, requests, 2)
	require.Equal(t, session.Header(), requests[0].Cookie)
	require.Equal(t, "1", requests[0].Query.Get("x"))
}

func TestRawGetRejectsOtherHosts(t *testing.T) {
	client, server := setup(t, rcmtest.Options{})
	ctx := testutil.Context(t, 10*time.Second)

	for _, target := range []string{
		"",
		"https://example.com/steal",
		"ftp://" + client.BaseUrl.Host + "/file",
	} {
		_, err := client.RawGet(ctx, Session{}, target)
		require.ErrorIs(t, err, ErrValidation, target)
	}
	require.Empty(t, server.Requests(""))
}
