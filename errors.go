package openmensa

import "errors"

// Errors returned by the parsing helpers and the canteen model. They are
// wrapped with context via fmt.Errorf("%w: ..."), so match with errors.Is.
var (
	ErrDateFormat   = errors.New("unsupported date format")
	ErrUnknownMonth = errors.New("unknown month name")
	ErrWeekday      = errors.New("unsupported weekday key")
	ErrPriceParse   = errors.New("could not extract price")
	ErrPriceType    = errors.New("unsupported price type")
	ErrValidation   = errors.New("invalid meal data")
)
