package openmensa

import (
	"regexp"
	"unicode/utf8"
)

// LazyCanteen wraps Canteen with the converting helpers: dates may be
// raw strings, prices any supported variant shape and meal names may
// carry legend references that are turned into notes. The zero value is
// ready to use.
type LazyCanteen struct {
	Canteen

	// LegendKeyFunc normalizes legend keys during building and lookup;
	// use strings.ToLower for case-insensitive legends. nil is identity.
	LegendKeyFunc KeyFunc
	// ExtraRegex overrides the pattern for legend references in meal
	// names; nil selects the default (1,a) style pattern.
	ExtraRegex *regexp.Regexp

	legend      map[string]string
	defaultRole string
	additional  map[string]any
}

// SetLegendData sets or extends the legend used for note extraction; see
// BuildLegend. Pass a nil pattern for the default legend grammar.
func (c *LazyCanteen) SetLegendData(legend map[string]string, text string, pattern *regexp.Regexp) {
	c.legend = BuildLegend(legend, text, pattern, c.LegendKeyFunc)
}

// SetAdditionalCharges configures the role single prices belong to and
// fixed surcharges for the other roles, enabling the scalar price shape
// of AddMeal.
func (c *LazyCanteen) SetAdditionalCharges(defaultRole string, additional map[string]any) error {
	parsed, err := BuildPrices(additional, nil, "", nil)
	if err != nil {
		return err
	}
	charges := make(map[string]any, len(parsed))
	for role, cents := range parsed {
		charges[role] = cents
	}
	c.defaultRole = defaultRole
	c.additional = charges
	return nil
}

// AddMeal converts its inputs and delegates to Canteen.AddMeal: the date
// runs through ExtractDate, the meal name through ExtractNotes when a
// legend is configured and prices/roles through BuildPrices. Over-long
// meal names are shortened to 247 characters plus "..." instead of being
// rejected.
func (c *LazyCanteen) AddMeal(date any, category, name string, notes []string, prices any, roles []string) error {
	if len(c.legend) > 0 {
		name, notes = ExtractNotes(name, notes, c.legend, c.ExtraRegex, c.LegendKeyFunc)
	}
	if prices == nil {
		prices = map[string]any{}
	}
	priceMap, err := BuildPrices(prices, roles, c.defaultRole, c.additional)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(name) > 250 {
		name = string([]rune(name)[:247]) + "..."
	}
	day, err := ExtractDate(date)
	if err != nil {
		return err
	}
	return c.Canteen.AddMeal(day, category, name, notes, priceMap)
}

// SetDayClosed resolves the date via ExtractDate and marks it closed.
func (c *LazyCanteen) SetDayClosed(date any) error {
	day, err := ExtractDate(date)
	if err != nil {
		return err
	}
	c.Canteen.SetDayClosed(day)
	return nil
}

// ClearDay resolves the date via ExtractDate and removes its entry.
func (c *LazyCanteen) ClearDay(date any) error {
	day, err := ExtractDate(date)
	if err != nil {
		return err
	}
	c.Canteen.ClearDay(day)
	return nil
}

// HasMealsFor resolves the date via ExtractDate; unparsable dates have
// no meals.
func (c *LazyCanteen) HasMealsFor(date any) bool {
	day, err := ExtractDate(date)
	if err != nil {
		return false
	}
	return c.Canteen.HasMealsFor(day)
}
