package rcm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumberDecoding(t *testing.T) {
	cases := []struct {
		raw      string
		expected Number
	}{
		{raw: `12`, expected: 12},
		{raw: `"34"`, expected: 34},
		{raw: `" 7 "`, expected: 7},
		{raw: `""`, expected: 0},
		{raw: `null`, expected: 0},
		{raw: `"n/a"`, expected: 0},
		{raw: `3.0`, expected: 3},
	}
	for _, test := range cases {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(test.raw), &n), test.raw)
		require.Equal(t, test.expected, n, test.raw)
	}

	var n Number
	require.Error(t, json.Unmarshal([]byte(`{}`), &n))
}

func TestFlagDecoding(t *testing.T) {
	cases := map[string]Flag{
		`true`:  true,
		`false`: false,
		`1`:     true,
		`0`:     false,
		`"Y"`:   true,
		`null`:  false,
	}
	for raw, expected := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		require.Equal(t, expected, f, raw)
	}
}

func TestAvailabilityResponseAbsentFields(t *testing.T) {
	var res availabilityResponse
	require.NoError(t, json.Unmarshal([]byte(`{"rcmbooking":null}`), &res))
	require.Empty(t, res.Bookings)
	require.Empty(t, res.Cars)
	require.Equal(t, 0, res.totalRows())
}
