package shaping

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements get a separating space so adjacent blocks do not run together.
const blockElements = "p, li, br, div, h1, h2, h3, h4, h5, h6, tr, td"

// flattenHTML converts an HTML fragment to single-spaced plain text.
// Text without markup is only whitespace-normalized.
func flattenHTML(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find(blockElements).AfterHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}
