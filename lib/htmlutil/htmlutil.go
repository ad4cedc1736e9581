package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlMarker = regexp.MustCompile(`(?i)<!doctype\s+html|<html[\s>]`)

// LooksLikeHTML reports whether a response body is an html document rather
// than the data it was supposed to be (ex. a login page served in place of json).
func LooksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimLeftFunc(body, unicode.IsSpace)
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return false
	}
	return htmlMarker.Match(body)
}

// InputValue returns the value attribute of the element with the given id,
// "" if the element or the attribute is missing.
func InputValue(doc *goquery.Document, id string) string {
	// ids like __VIEWSTATE are safe css identifiers but ASP.NET ids
	// containing '$' are not, so match the attribute instead of using #id
	return strings.TrimSpace(doc.Find(`[id="` + id + `"]`).First().AttrOr("value", ""))
}

// HasInput reports whether the document has a form field with the given name.
func HasInput(doc *goquery.Document, name string) bool {
	return doc.Find(`[name="` + name + `"]`).Length() > 0
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// NormalizedText returns the text content of a selection with non-printable
// characters removed and runs of whitespace collapsed.
func NormalizedText(sel *goquery.Selection) string {
	var buffer strings.Builder
	for _, n := range sel.Nodes {
		buffer.WriteString(GetText(n))
	}
	text := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, buffer.String())
	text = strings.TrimSpace(text)
	return innerWhitespace.ReplaceAllString(text, " ")
}
