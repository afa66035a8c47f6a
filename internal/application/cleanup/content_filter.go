package cleanup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector lists whole-document elements that carry no recipe
// signal under any circumstance.
const noiseSelector = "script, style, noscript, iframe, svg, form, nav, footer, header, aside, " +
	`[class*="advert" i], [class*="cookie" i], [class*="newsletter" i], [class*="comment" i]`

// ContentFilterStrategy implements §4.2 strategy 3: prune noise from the
// whole document rather than isolating a single container, used when no
// single section scores well enough on its own.
func ContentFilterStrategy(html string, cfg Config) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	doc.Find(noiseSelector).Remove()
	stripAttributes(doc.Selection)

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	fragment, err := body.Html()
	if err != nil {
		return "", false
	}
	fragment = strings.TrimSpace(fragment)
	if len(fragment) < cfg.ContentFilter.MinOutputSize {
		return "", false
	}
	return fragment, true
}
