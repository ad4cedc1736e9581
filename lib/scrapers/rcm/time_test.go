package rcm

import (
	"fleetblock-backend/lib/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tz := timezone.Location

	testCases := []struct {
		text     string
		expected time.Time
	}{
		{text: "14/01/2026 10:00:00", expected: time.Date(2026, 1, 14, 10, 0, 0, 0, tz)},
		{text: "14/01/2026", expected: time.Date(2026, 1, 14, 0, 0, 0, 0, tz)},
		{text: "19-Jan-2026 12:30", expected: time.Date(2026, 1, 19, 12, 30, 0, 0, tz)},
		{text: "2026/1/14", expected: time.Date(2026, 1, 14, 0, 0, 0, 0, tz)},
		{text: "2026-01-14 7", expected: time.Date(2026, 1, 14, 7, 0, 0, 0, tz)},
		{text: "14/1/26", expected: time.Date(2026, 1, 14, 0, 0, 0, 0, tz)},
		{text: "3/12/2025 2:15 PM", expected: time.Date(2025, 12, 3, 14, 15, 0, 0, tz)},
		{text: "3/12/2025 12:05:09 am", expected: time.Date(2025, 12, 3, 0, 5, 9, 0, tz)},
		{text: "  29-February-2028  ", expected: time.Date(2028, 2, 29, 0, 0, 0, 0, tz)},
	}

	for _, test := range testCases {
		parsed, err := ParseDate(test.text)
		require.NoError(t, err, test.text)
		require.True(t, test.expected.Equal(parsed), "%q: expected %v, got %v", test.text, test.expected, parsed)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, text := range []string{
		"",
		"yesterday",
		"14/01",
		"32/01/2026",
		"29/02/2026",
		"14/13/2026",
		"14/Foo/2026",
		"14/01/2026 25:00",
		"14/01/2026 10:00 XM",
		"14/01/2026 10:00:00:00",
		"14/01/2026 -1:00",
		"14/01/2026 10:+5",
		"+5/01/2026",
		"14/+1/2026",
		"-14/01/2026",
	} {
		_, err := ParseDate(text)
		require.Error(t, err, text)
	}
}

func TestNormalizeDate(t *testing.T) {
	text, err := NormalizeDate("2026-1-4")
	require.NoError(t, err)
	require.Equal(t, "04/01/2026", text)

	require.Equal(t, "21/01/2026", FormatDate(time.Date(2026, 1, 21, 23, 0, 0, 0, timezone.Location)))
}
