package navtrack

import (
	"time"

	"github.com/avinashs/navtrack/date"
)

// Holding is one discrete purchase lot of an investment instrument.
//
// Units and Amount are kept mutually consistent: when a lot is recorded
// with only one of them, the other is derived from the purchase NAV (see
// CompleteAmountUnits). CurrentNAV is the last per-unit value observed
// from the feed; it stays zero until the first successful reconciliation
// and is only ever overwritten by a fresh match, never cleared.
type Holding struct {
	ID    string // opaque, assigned at creation, never reused
	Owner string

	SchemeCode string // feed identifier; empty means match by name
	Name       string
	Type       string // MF, SIP, ETF, NPS, Other

	PurchaseDate date.Date
	PurchaseNAV  Money
	Units        Quantity
	Amount       Money

	CurrentNAV Money // zero until first reconciliation

	Category string
	Rating   string
	Notes    string

	CreatedAt time.Time
}

// HasCurrentNAV reports whether a price has ever been reconciled into the lot.
func (h Holding) HasCurrentNAV() bool { return h.CurrentNAV.IsPositive() }

// CurrentValue returns CurrentNAV × Units. The boolean is false when no
// price is known yet; callers must exclude such lots from aggregate sums
// rather than counting them as zero.
func (h Holding) CurrentValue() (Money, bool) {
	if !h.HasCurrentNAV() {
		return Money{}, false
	}
	return h.CurrentNAV.Mul(h.Units), true
}

// HoldingYears returns the holding period in years on the given date.
func (h Holding) HoldingYears(on date.Date) float64 {
	return date.YearsBetween(h.PurchaseDate, on)
}

// AbsoluteReturn returns the lot's absolute return over the invested
// amount. The boolean is false when it is undefined (no known price, or
// zero amount).
func (h Holding) AbsoluteReturn() (Percent, bool) {
	value, ok := h.CurrentValue()
	if !ok {
		return 0, false
	}
	return AbsoluteReturn(h.Amount, value)
}

// AnnualizedReturn returns the lot's compound annual growth rate on the
// given date. The boolean is false when it is undefined.
func (h Holding) AnnualizedReturn(on date.Date) (Percent, bool) {
	value, ok := h.CurrentValue()
	if !ok {
		return 0, false
	}
	return AnnualizedReturn(h.Amount, value, h.HoldingYears(on))
}

// Matchable reports whether the lot carries any identifier usable against
// the feed. A non-matchable lot is skipped by reconciliation, not an error.
func (h Holding) Matchable() bool { return h.SchemeCode != "" || h.Name != "" }

// Complete validates the lot and derives the missing one of Units/Amount
// from the purchase NAV. It returns ErrInvalidLot when the purchase NAV is
// not positive or when both units and amount are zero. Stores call it
// before persisting.
func (h *Holding) Complete() error {
	amount, units, err := CompleteAmountUnits(h.Amount, h.Units, h.PurchaseNAV)
	if err != nil {
		return err
	}
	h.Amount, h.Units = amount, units
	return nil
}

// Patch is a partial update of a holding. Nil fields are left untouched.
// Reconciliation only ever sets CurrentNAV; users may change the rest.
type Patch struct {
	Name        *string
	Type        *string
	PurchaseNAV *Money
	Units       *Quantity
	Amount      *Money
	CurrentNAV  *Money
	Category    *string
	Rating      *string
	Notes       *string
}

// Apply merges the patch into the holding and re-derives units/amount
// consistency when the merge leaves one of them zero.
func (h *Holding) Apply(p Patch) error {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.PurchaseNAV != nil {
		h.PurchaseNAV = *p.PurchaseNAV
	}
	if p.Units != nil {
		h.Units = *p.Units
	}
	if p.Amount != nil {
		h.Amount = *p.Amount
	}
	if p.CurrentNAV != nil {
		h.CurrentNAV = *p.CurrentNAV
	}
	if p.Category != nil {
		h.Category = *p.Category
	}
	if p.Rating != nil {
		h.Rating = *p.Rating
	}
	if p.Notes != nil {
		h.Notes = *p.Notes
	}
	if p.PurchaseNAV != nil || p.Units != nil || p.Amount != nil {
		return h.Complete()
	}
	return nil
}

// Store is the persistence abstraction over purchase lots. Two backends
// implement it (a remote table and a local mirror file), plus a dual
// write-through combination; callers are unaware which one is active.
type Store interface {
	// List returns the lots of one owner.
	List(owner string) ([]Holding, error)
	// Get returns the lot with the given id, or ErrNotFound.
	Get(id string) (Holding, error)
	// Insert validates the lot, assigns ID and CreatedAt when absent, and
	// persists it. It returns the assigned id.
	Insert(h *Holding) (string, error)
	// Update merges the patch into the lot with the given id, or returns
	// ErrNotFound.
	Update(id string, p Patch) error
	// Delete removes the lot. Deleting an absent id is not an error.
	Delete(id string) error
}
