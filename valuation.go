package navtrack

import "math"

// This file contains the pure valuation rules: completing a lot from its
// purchase NAV, and the derived return metrics.

// CompleteAmountUnits derives the missing one of amount/units from a
// positive per-unit price:
//   - amount set, units zero: units = amount / price
//   - units set, amount zero: amount = units × price
//   - both set: returned unchanged, the user supplied both explicitly
//   - both zero (or price not positive): ErrInvalidLot
func CompleteAmountUnits(amount Money, units Quantity, price Money) (Money, Quantity, error) {
	if !price.IsPositive() {
		return amount, units, ErrInvalidLot
	}
	switch {
	case amount.IsPositive() && units.IsZero():
		return amount, amount.DivPrice(price), nil
	case units.IsPositive() && amount.IsZero():
		return price.Mul(units), units, nil
	case amount.IsPositive() && units.IsPositive():
		return amount, units, nil
	default:
		return amount, units, ErrInvalidLot
	}
}

// AbsoluteReturn returns (value - amount) / amount as a percentage.
// It is undefined (false) when amount is not positive.
func AbsoluteReturn(amount, value Money) (Percent, bool) {
	if !amount.IsPositive() {
		return 0, false
	}
	r := value.Sub(amount).Decimal().Div(amount.Decimal()).InexactFloat64()
	return Percent(r * 100), true
}

// AnnualizedReturn returns the compound annual growth rate
// (value/amount)^(1/years) - 1 as a percentage. It is undefined (false)
// when amount or value is not positive, or when years is not positive:
// a fractional power of a non-positive base is not real-valued and is
// never computed.
func AnnualizedReturn(amount, value Money, years float64) (Percent, bool) {
	if !amount.IsPositive() || !value.IsPositive() || years <= 0 {
		return 0, false
	}
	growth := value.Decimal().Div(amount.Decimal()).InexactFloat64()
	return Percent((math.Pow(growth, 1/years) - 1) * 100), true
}
