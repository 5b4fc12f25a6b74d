package openmensa

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mpvl/unique"
)

// HTMLSelectors describes where menu data lives inside an HTML fragment.
// All selectors are goquery/CSS selectors; Category blocks are searched
// in the fragment, all other selectors inside their enclosing block.
type HTMLSelectors struct {
	Category     string
	CategoryName string
	Meal         string
	MealName     string
	// Note selects note cells inside a meal block; empty skips notes.
	Note string
	// Prices selects the price cell of a meal; its text is split on "/"
	// and matched up with the tail of PriceRoles, so a single price
	// belongs to the last role.
	Prices     string
	PriceRoles []string
	// ClosedText marks a day without any menu; if the fragment contains
	// it and no meal blocks, the day is stored as closed.
	ClosedText string
}

// AddMealsFromHTML extracts all meals of one day from an HTML fragment
// the fetch layer retrieved and adds them via AddMeal. The fragment is
// parsed in memory, no network or file I/O happens here.
func (c *LazyCanteen) AddMealsFromHTML(date any, fragment string, sel HTMLSelectors) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return err
	}

	if sel.ClosedText != "" && doc.Find(sel.Meal).Length() == 0 &&
		strings.Contains(doc.Text(), sel.ClosedText) {
		return c.SetDayClosed(date)
	}

	var addErr error
	doc.Find(sel.Category).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		category := strings.TrimSpace(block.Find(sel.CategoryName).Text())

		block.Find(sel.Meal).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			name := strings.TrimSpace(m.Find(sel.MealName).Text())

			var notes []string
			if sel.Note != "" {
				m.Find(sel.Note).Each(func(_ int, n *goquery.Selection) {
					if text := strings.TrimSpace(n.Text()); text != "" {
						notes = append(notes, text)
					}
				})
				// icon and text cells often repeat the same note;
				// unique only collapses neighbours, so sort first
				sort.Strings(notes)
				unique.Strings(&notes)
			}

			prices, roles := splitPrices(m, sel)
			if err := c.AddMeal(date, category, name, notes, prices, roles); err != nil {
				addErr = err
				return false
			}
			return true
		})
		return addErr == nil
	})
	return addErr
}

// splitPrices turns the price cell text into a price string sequence and
// the role names it maps onto. Fewer prices than roles means the prices
// belong to the last roles.
func splitPrices(m *goquery.Selection, sel HTMLSelectors) (any, []string) {
	if sel.Prices == "" || len(sel.PriceRoles) == 0 {
		return nil, nil
	}
	text := strings.TrimSpace(m.Find(sel.Prices).Text())
	if text == "" {
		return nil, nil
	}
	parts := strings.SplitN(text, "/", len(sel.PriceRoles))
	prices := make([]string, 0, len(parts))
	for _, part := range parts {
		prices = append(prices, strings.TrimSpace(part))
	}
	return prices, sel.PriceRoles[len(sel.PriceRoles)-len(prices):]
}
