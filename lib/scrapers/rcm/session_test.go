package rcm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	session := NewSession(
		[]string{"ASP.NET_SessionId=sess1; path=/; HttpOnly", "lang=en"},
		[]string{".ASPXAUTH=auth1; path=/", " ASP.NET_SessionId=sess1; path=/", "; expires=never"},
		nil,
		[]string{"lang=en-AU"},
	)
	require.Equal(t, []string{
		"ASP.NET_SessionId=sess1",
		"lang=en",
		".ASPXAUTH=auth1",
		"lang=en-AU",
	}, session.Cookies)
	require.Equal(t, "ASP.NET_SessionId=sess1; lang=en; .ASPXAUTH=auth1; lang=en-AU", session.Header())
	require.False(t, session.Empty())

	require.True(t, NewSession().Empty())
	require.Equal(t, "", NewSession(nil).Header())
}
