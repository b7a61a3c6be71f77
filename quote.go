package navtrack

import (
	"github.com/avinashs/navtrack/date"
	"github.com/shopspring/decimal"
)

// Quote is an immutable price snapshot for one instrument, as published by
// the NAV feed. A new fetch replaces the whole quote set; quotes are never
// merged into a history.
type Quote struct {
	// Code is the scheme code, the stable instrument identifier of the feed.
	Code string
	// Name is the scheme display name.
	Name string
	// NAV is the latest published per-unit value.
	NAV decimal.Decimal
	// On is the publication date of the NAV.
	On date.Date
}

// Price returns the quote's NAV as a Money in the given currency.
func (q Quote) Price(currency string) Money { return NewMoney(q.NAV, currency) }
