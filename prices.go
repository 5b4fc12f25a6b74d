package openmensa

import (
	"fmt"
	"math"
	"regexp"
)

// Price is the result of ConvertPrice: either an amount in euro cents or
// the explicit information that no price was given. The zero value is
// absent, so a missing price is never confused with 0 cents.
type Price struct {
	Cents   int
	Present bool
}

var (
	// fullPriceRe finds a euro group and a raw 1-2 digit cent group. A
	// single-digit cent group only counts when a currency symbol follows;
	// that check lives in matchFullPrice because RE2 has no lookahead.
	fullPriceRe  = regexp.MustCompile(`(?:^|[^\d,.])(\d+)[,.](\d{1,2})`)
	shortPriceRe = regexp.MustCompile(`^[^\d]*(\d+)\s*€`)
	nonePriceRe  = regexp.MustCompile(`^\s*-\s*$`)
	centSuffixRe = regexp.MustCompile(`^\s*€`)
)

// PriceParser converts raw price values into cent counts. The zero value
// uses the default no-value pattern (only whitespace and a single dash).
type PriceParser struct {
	// None detects input that deliberately carries no price.
	None *regexp.Regexp
}

// ConvertPrice converts the given price into a cent count using the
// default patterns. int, float and string inputs are supported.
func ConvertPrice(variant any) (Price, error) {
	return PriceParser{}.Convert(variant)
}

func (p PriceParser) Convert(variant any) (Price, error) {
	switch v := variant.(type) {
	case bool:
		// bools must not slip through as 0/1 cent counts
		return Price{}, fmt.Errorf("%w: bool", ErrPriceType)
	case int:
		return Price{Cents: v, Present: true}, nil
	case int64:
		return Price{Cents: int(v), Present: true}, nil
	case float32:
		return Price{Cents: int(math.RoundToEven(float64(v) * 100)), Present: true}, nil
	case float64:
		return Price{Cents: int(math.RoundToEven(v * 100)), Present: true}, nil
	case string:
		return p.convertString(v)
	default:
		return Price{}, fmt.Errorf("%w: %T", ErrPriceType, variant)
	}
}

func (p PriceParser) convertString(s string) (Price, error) {
	if cents, ok := matchFullPrice(s); ok {
		return Price{Cents: cents, Present: true}, nil
	}
	if m := shortPriceRe.FindStringSubmatch(s); m != nil {
		return Price{Cents: atoi(m[1]) * 100, Present: true}, nil
	}
	none := p.None
	if none == nil {
		none = nonePriceRe
	}
	if none.MatchString(s) {
		return Price{}, nil
	}
	return Price{}, fmt.Errorf("%w: %q", ErrPriceParse, s)
}

// matchFullPrice scans s for the first euro/cent pair. Surrounding
// garbage is ignored. A two-digit cent group always counts; a one-digit
// group counts as tens of cents, but only directly before a euro sign.
func matchFullPrice(s string) (int, bool) {
	offset := 0
	for offset < len(s) {
		m := fullPriceRe.FindStringSubmatchIndex(s[offset:])
		if m == nil {
			return 0, false
		}
		euro := s[offset+m[2] : offset+m[3]]
		cent := s[offset+m[4] : offset+m[5]]
		rest := s[offset+m[5]:]
		if len(cent) == 2 {
			return atoi(euro)*100 + atoi(cent), true
		}
		if centSuffixRe.MatchString(rest) {
			return atoi(euro)*100 + atoi(cent)*10, true
		}
		// ambiguous single cent digit, keep scanning behind this euro group
		offset += m[2] + 1
	}
	return 0, false
}

// BuildPrices creates a role to cent count mapping. Three input shapes
// are supported: a mapping from role to price variant, a single scalar
// price combined with defaultRole and per-role surcharges, or an ordered
// sequence of price variants matched up with roles. Variants that carry
// no price are dropped; role names are not validated here, that happens
// in Canteen.AddMeal.
func BuildPrices(data any, roles []string, defaultRole string, additional map[string]any) (map[string]int, error) {
	switch v := data.(type) {
	case map[string]any:
		return buildPriceMap(v)
	case map[string]int:
		m := make(map[string]any, len(v))
		for role, value := range v {
			m[role] = value
		}
		return buildPriceMap(m)
	case map[string]string:
		m := make(map[string]any, len(v))
		for role, value := range v {
			m[role] = value
		}
		return buildPriceMap(m)
	case map[string]float64:
		m := make(map[string]any, len(v))
		for role, value := range v {
			m[role] = value
		}
		return buildPriceMap(m)
	case bool:
		return nil, fmt.Errorf("%w: bool", ErrPriceType)
	case string, int, int64, float32, float64:
		return buildScalarPrices(v, defaultRole, additional)
	case []any:
		if roles == nil {
			return nil, fmt.Errorf("%w: price list without roles", ErrPriceType)
		}
		return buildPriceList(v, roles)
	case []string:
		if roles == nil {
			return nil, fmt.Errorf("%w: price list without roles", ErrPriceType)
		}
		list := make([]any, len(v))
		for i, value := range v {
			list[i] = value
		}
		return buildPriceList(list, roles)
	case []int:
		if roles == nil {
			return nil, fmt.Errorf("%w: price list without roles", ErrPriceType)
		}
		list := make([]any, len(v))
		for i, value := range v {
			list[i] = value
		}
		return buildPriceList(list, roles)
	case []float64:
		if roles == nil {
			return nil, fmt.Errorf("%w: price list without roles", ErrPriceType)
		}
		list := make([]any, len(v))
		for i, value := range v {
			list[i] = value
		}
		return buildPriceList(list, roles)
	default:
		return nil, fmt.Errorf("%w: %T", ErrPriceType, data)
	}
}

func buildPriceMap(data map[string]any) (map[string]int, error) {
	prices := make(map[string]int, len(data))
	for role, variant := range data {
		price, err := ConvertPrice(variant)
		if err != nil {
			return nil, err
		}
		if price.Present {
			prices[role] = price.Cents
		}
	}
	return prices, nil
}

func buildScalarPrices(data any, defaultRole string, additional map[string]any) (map[string]int, error) {
	if defaultRole == "" {
		return nil, fmt.Errorf("%w: a default role is needed to pass a single price", ErrValidation)
	}
	base, err := ConvertPrice(data)
	if err != nil {
		return nil, err
	}
	if !base.Present {
		return map[string]int{}, nil
	}
	prices := map[string]int{defaultRole: base.Cents}
	for role, variant := range additional {
		charge, err := ConvertPrice(variant)
		if err != nil {
			return nil, err
		}
		if charge.Present {
			prices[role] = base.Cents + charge.Cents
		}
	}
	return prices, nil
}

func buildPriceList(data []any, roles []string) (map[string]int, error) {
	prices := make(map[string]int, len(data))
	next := 0
	for _, variant := range data {
		price, err := ConvertPrice(variant)
		if err != nil {
			return nil, err
		}
		if !price.Present {
			continue
		}
		if next >= len(roles) {
			return nil, fmt.Errorf("%w: more prices than roles", ErrValidation)
		}
		prices[roles[next]] = price.Cents
		next++
	}
	return prices, nil
}
