// Package textclean detects HTML markup in free-text form input. The viewer
// pages insert record text as HTML, so tags in stored values would render.
// Values are never rewritten; the form layer rejects markup instead.
package textclean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"drugdex/m/domain"
)

// HasMarkup reports whether s contains at least one known HTML element.
// Text such as "CrCl<normal range" or "a < b" parses into unknown or no
// elements and is not markup.
func HasMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return false
	}
	for _, n := range doc.Find("*").Nodes {
		switch n.Data {
		case "html", "head", "body":
			// added by the parser around every fragment
			continue
		}
		if n.DataAtom != 0 {
			return true
		}
	}
	return false
}

// MarkupField returns the JSON name of the first text field of d holding
// markup.
func MarkupField(d domain.Drug) (string, bool) {
	values := d.Values()
	for i := 1; i < len(values); i++ {
		if HasMarkup(values[i]) {
			return domain.Fields[i], true
		}
	}
	return "", false
}
