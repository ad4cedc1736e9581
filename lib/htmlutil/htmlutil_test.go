package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		body     string
		expected bool
	}{
		{body: "<!DOCTYPE html><html><body>login</body></html>", expected: true},
		{body: "\r\n  <html lang=\"en\">", expected: true},
		{body: "<!doctype HTML>", expected: true},
		{body: `{"rcmbooking":[]}`, expected: false},
		{body: `{"note":"<html> inside a string"}`, expected: false},
		{body: "", expected: false},
		{body: "plain text", expected: false},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, LooksLikeHTML([]byte(test.body)), test.body)
	}
}

func TestInputValue(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<form>
			<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value=" abc== " />
			<input type="hidden" name="ctl00$MainContent$Username" id="ctl00_MainContent_Username" />
			<div id="message">  Invalid
				login   </div>
		</form>`))
	require.NoError(t, err)

	require.Equal(t, "abc==", InputValue(doc, "__VIEWSTATE"))
	require.Equal(t, "", InputValue(doc, "__EVENTVALIDATION"))
	require.True(t, HasInput(doc, "ctl00$MainContent$Username"))
	require.False(t, HasInput(doc, "ctl00$MainContent$Password"))
	require.Equal(t, "Invalid login", NormalizedText(doc.Find("#message")))
}
