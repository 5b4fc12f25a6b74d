package openmensa

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"time"
)

const (
	xmlHeader = xml.Header + `<openmensa version="2.1" xmlns="http://openmensa.org/open-mensa-v2" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://openmensa.org/open-mensa-v2 http://openmensa.org/open-mensa-v2.xsd">` + "\n"
	xmlFooter = "\n</openmensa>\n"
)

// FeedSchedule is re-emitted verbatim as schedule attributes; no
// semantic validation is done on any field.
type FeedSchedule struct {
	DayOfMonth string `xml:"dayOfMonth,attr,omitempty"`
	DayOfWeek  string `xml:"dayOfWeek,attr,omitempty"`
	Month      string `xml:"month,attr,omitempty"`
	Hour       string `xml:"hour,attr"`
	Minute     string `xml:"minute,attr,omitempty"`
	Retry      string `xml:"retry,attr,omitempty"`
}

// Feed describes where and when one feed of this canteen can be fetched.
type Feed struct {
	XMLName  xml.Name      `xml:"feed"`
	Name     string        `xml:"name,attr"`
	Priority int           `xml:"priority,attr"`
	Schedule *FeedSchedule `xml:"schedule,omitempty"`
	Url      string        `xml:"url"`
	Source   string        `xml:"source,omitempty"`
}

type Location struct {
	Latitude  string `xml:"latitude,attr"`
	Longitude string `xml:"longitude,attr"`
}

type priceXML struct {
	XMLName xml.Name `xml:"price"`
	Price   string   `xml:",chardata"`
	Role    string   `xml:"role,attr"`
}

type mealXML struct {
	XMLName xml.Name `xml:"meal"`
	Name    string   `xml:"name"`
	Notes   []string `xml:"note"`
	Prices  []priceXML
}

type categoryXML struct {
	name  string
	meals []mealXML
}

func (c categoryXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// only output if there are meals
	if len(c.meals) == 0 {
		return nil
	}
	start.Name = xml.Name{Local: "category"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "name"}, Value: c.name}}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, m := range c.meals {
		if err := e.Encode(m); err != nil {
			return err
		}
	}
	if err := e.EncodeToken(start.End()); err != nil {
		return err
	}
	return e.Flush()
}

type dayXML struct {
	date       string
	closed     bool
	categories []categoryXML
}

func (d dayXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "day"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "date"}, Value: d.date}}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if d.closed {
		err := e.Encode(struct {
			XMLName xml.Name `xml:"closed"`
		}{})
		if err != nil {
			return err
		}
	} else {
		for _, c := range d.categories {
			if err := e.Encode(c); err != nil {
				return err
			}
		}
	}
	if err := e.EncodeToken(start.End()); err != nil {
		return err
	}
	return e.Flush()
}

type canteenXML struct {
	XMLName      xml.Name  `xml:"canteen"`
	Name         string    `xml:"name,omitempty"`
	Address      string    `xml:"address,omitempty"`
	City         string    `xml:"city,omitempty"`
	Phone        string    `xml:"phone,omitempty"`
	Email        string    `xml:"email,omitempty"`
	Location     *Location `xml:"location,omitempty"`
	Availability string    `xml:"availability,omitempty"`
	Feeds        []Feed    `xml:",omitempty"`
	Days         []dayXML
}

type versionXML struct {
	XMLName xml.Name `xml:"version"`
	Version string   `xml:",chardata"`
}

// feedTree assembles the serialization view of the canteen: feeds sorted
// by priority, days sorted by date, notes and price roles sorted
// lexicographically. Category and meal order stay as created.
func (c *Canteen) feedTree() canteenXML {
	tree := canteenXML{
		Name:         c.Name,
		Address:      c.Address,
		City:         c.City,
		Phone:        c.Phone,
		Email:        c.Email,
		Location:     c.Location,
		Availability: c.Availability,
	}

	tree.Feeds = append(tree.Feeds, c.Feeds...)
	sort.SliceStable(tree.Feeds, func(i, j int) bool {
		return tree.Feeds[i].Priority < tree.Feeds[j].Priority
	})

	dates := make([]time.Time, 0, len(c.days))
	for date := range c.days {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		day := c.days[date]
		d := dayXML{date: date.Format("2006-01-02"), closed: day.closed}
		for _, cat := range day.categories {
			category := categoryXML{name: cat.name}
			for _, meal := range cat.meals {
				category.meals = append(category.meals, mealTree(meal))
			}
			d.categories = append(d.categories, category)
		}
		tree.Days = append(tree.Days, d)
	}
	return tree
}

func mealTree(meal Meal) mealXML {
	m := mealXML{Name: meal.Name}

	m.Notes = append(m.Notes, meal.Notes...)
	sort.Strings(m.Notes)

	roles := make([]string, 0, len(meal.Prices))
	for role := range meal.Prices {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		m.Prices = append(m.Prices, priceXML{Price: formatPrice(meal.Prices[role]), Role: role})
	}
	return m
}

// formatPrice renders cents as euros.cents with exactly two cent digits.
// Integer arithmetic keeps float representation artifacts out of feeds.
func formatPrice(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// Write renders the whole canteen as OpenMensa v2 feed: the XML
// declaration, the fixed openmensa root element, an optional version
// element and the canteen tree, pretty-printed with two-space indents.
func (c *Canteen) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xmlHeader); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("  ", "  ")
	if c.Version != "" {
		if err := enc.Encode(versionXML{Version: c.Version}); err != nil {
			return err
		}
	}
	if err := enc.Encode(c.feedTree()); err != nil {
		return err
	}

	_, err := io.WriteString(w, xmlFooter)
	return err
}

// XMLFeed returns the feed document as string.
func (c *Canteen) XMLFeed() (string, error) {
	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
