// Package openmensa builds OpenMensa v2 feeds: it normalizes loosely
// formatted menu data (free-text dates, mixed price formats, footnote
// style meal annotations) into a validated canteen model and serializes
// that model into the canonical XML feed.
package openmensa

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Meal is one menu entry of a category: a name, optional notes and a
// role to euro-cent price mapping.
type Meal struct {
	Name   string
	Notes  []string
	Prices map[string]int
}

// Canteen stores all information about one canteen: descriptive
// metadata, feed definitions and the meals served per day. The zero
// value is ready to use. It is meant to be filled by a single producer
// and is not safe for concurrent mutation.
type Canteen struct {
	Name         string
	Address      string
	City         string
	Phone        string
	Email        string
	Location     *Location
	Availability string

	// Version is the parser version written as feed version element;
	// empty means no version element.
	Version string

	// Feeds are re-emitted verbatim, sorted by priority.
	Feeds []Feed

	days map[time.Time]*dayMenu
}

type dayMenu struct {
	closed     bool
	categories []*mealCategory
}

type mealCategory struct {
	name  string
	meals []Meal
}

var priceRoles = [...]string{"pupil", "student", "employee", "other"}

func validPriceRole(role string) bool {
	for _, known := range priceRoles {
		if role == known {
			return true
		}
	}
	return false
}

// mealDay strips the time of day so equal dates share one map key.
func mealDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMeal adds one meal to the category of the given date. Name (1-250
// characters), category and all notes must be non-empty, price roles must
// be one of pupil, student, employee, other and prices must not be
// negative. All checks run before anything is stored, so a failed call
// leaves the canteen unchanged. Category creation order and meal append
// order are kept. Adding a meal to a closed day reopens it.
func (c *Canteen) AddMeal(date time.Time, category, name string, notes []string, prices map[string]int) error {
	if name == "" {
		return fmt.Errorf("%w: meal names must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > 250 {
		return fmt.Errorf("%w: meal names must be shorter than 251 characters", ErrValidation)
	}
	if category == "" {
		return fmt.Errorf("%w: category names must not be empty", ErrValidation)
	}
	for _, note := range notes {
		if note == "" {
			return fmt.Errorf("%w: notes must not be empty, leave them out instead", ErrValidation)
		}
	}
	for role, cents := range prices {
		if !validPriceRole(role) {
			return fmt.Errorf("%w: unknown price role %q", ErrValidation, role)
		}
		if cents < 0 {
			return fmt.Errorf("%w: negative price for role %q", ErrValidation, role)
		}
	}

	day := c.openDay(mealDay(date))
	cat := day.category(category)
	meal := Meal{Name: name}
	if len(notes) > 0 {
		meal.Notes = append([]string(nil), notes...)
	}
	meal.Prices = make(map[string]int, len(prices))
	for role, cents := range prices {
		meal.Prices[role] = cents
	}
	cat.meals = append(cat.meals, meal)
	return nil
}

// SetDayClosed marks the date as closed. All meals stored for this date
// are discarded; closed and open state are mutually exclusive.
func (c *Canteen) SetDayClosed(date time.Time) {
	if c.days == nil {
		c.days = map[time.Time]*dayMenu{}
	}
	c.days[mealDay(date)] = &dayMenu{closed: true}
}

// ClearDay removes all stored information about the date, meals or
// closed marker alike.
func (c *Canteen) ClearDay(date time.Time) {
	delete(c.days, mealDay(date))
}

// DayCount returns the number of dates with stored information.
func (c *Canteen) DayCount() int {
	return len(c.days)
}

// HasMealsFor reports whether at least one meal is stored for the date.
// Closed or unknown dates have no meals.
func (c *Canteen) HasMealsFor(date time.Time) bool {
	day := c.days[mealDay(date)]
	if day == nil || day.closed {
		return false
	}
	for _, cat := range day.categories {
		if len(cat.meals) > 0 {
			return true
		}
	}
	return false
}

// openDay returns the open day entry for date, creating it or replacing
// a closed marker if needed.
func (c *Canteen) openDay(date time.Time) *dayMenu {
	if c.days == nil {
		c.days = map[time.Time]*dayMenu{}
	}
	day := c.days[date]
	if day == nil || day.closed {
		day = &dayMenu{}
		c.days[date] = day
	}
	return day
}

// meals returns the stored meals for date and category, mainly for
// inspection in tests.
func (c *Canteen) meals(date time.Time, category string) []Meal {
	day := c.days[mealDay(date)]
	if day == nil || day.closed {
		return nil
	}
	for _, cat := range day.categories {
		if cat.name == category {
			return cat.meals
		}
	}
	return nil
}

func (d *dayMenu) category(name string) *mealCategory {
	for _, cat := range d.categories {
		if cat.name == name {
			return cat
		}
	}
	cat := &mealCategory{name: name}
	d.categories = append(d.categories, cat)
	return cat
}
