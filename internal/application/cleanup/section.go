package cleanup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// sectionSelectors are the container element set §4.2 names; every
// match across every selector is scored, and the true maximum wins.
var sectionSelectors = []string{
	`[itemtype*="Recipe"]`,
	`article[class*="recipe" i], article[id*="recipe" i]`,
	`div[class*="recipe" i], div[id*="recipe" i]`,
	"article",
	"main",
	"section",
}

// SectionBasedStrategy implements §4.2 strategy 2: score candidate
// containers by keyword density and pick the highest scorer whose
// confidence clears the configured threshold, stripped down to its
// own subtree with scripts/styles/comments removed.
func SectionBasedStrategy(html string, cfg Config) (string, bool) {
	if !cfg.Section.Enabled {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var best *goquery.Selection
	bestScore := -1

	for _, selector := range sectionSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			score := sectionConfidence(sel, cfg.Section)
			if score > bestScore {
				bestScore = score
				best = sel
			}
		})
	}

	if best == nil || bestScore < cfg.Section.MinConfidence {
		return "", false
	}

	stripNoise(best)

	fragment, err := best.Html()
	if err != nil || strings.TrimSpace(fragment) == "" {
		return "", false
	}
	return fragment, true
}

// sectionConfidence implements §4.2's additive scoring scheme: +10 per
// keyword match, +20 for ≥2 list descendants, +10 for ≥2 heading
// descendants, +10 if the text runs past the configured length bonus.
func sectionConfidence(sel *goquery.Selection, cfg SectionConfig) int {
	text := strings.ToLower(sel.Text())
	score := 0
	for _, kw := range cfg.Keywords {
		if strings.Contains(text, kw) {
			score += 10
		}
	}
	if sel.Find("ul, ol").Length() >= cfg.ListBonusMinCount {
		score += 20
	}
	if sel.Find("h2, h3").Length() >= cfg.HeadingBonusMinCount {
		score += 10
	}
	if len([]rune(sel.Text())) > cfg.LengthBonusThreshold {
		score += 10
	}
	return score
}

// stripNoise removes elements that never carry recipe signal and, per
// §4.2, strips style/class/id/data-*/on* attributes from what remains.
// Shares noiseSelector (content_filter.go) with the content-filter
// strategy — §4.2 calls both out as "the same categories".
func stripNoise(sel *goquery.Selection) {
	sel.Find(noiseSelector).Remove()
	stripAttributes(sel)
}

// stripAttributes removes style/class/id/data-*/on* attributes from sel
// and every descendant, shared by the section and content-filter
// strategies per §4.2.
func stripAttributes(sel *goquery.Selection) {
	sel.Find("*").AddBack().Each(func(_ int, node *goquery.Selection) {
		if len(node.Nodes) == 0 {
			return
		}
		var toRemove []string
		for _, attr := range node.Nodes[0].Attr {
			if attr.Key == "style" || attr.Key == "class" || attr.Key == "id" ||
				strings.HasPrefix(attr.Key, "data-") || strings.HasPrefix(attr.Key, "on") {
				toRemove = append(toRemove, attr.Key)
			}
		}
		for _, key := range toRemove {
			node.RemoveAttr(key)
		}
	})
}
