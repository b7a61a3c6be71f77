package navtrack

import "errors"

// ErrInvalidLot rejects a purchase lot whose purchase NAV is not positive,
// or whose units and amount are both zero. Such a lot is refused before any
// write, never coerced.
var ErrInvalidLot = errors.New("invalid lot: purchase NAV must be positive and at least one of units or amount non-zero")

// ErrNotFound is returned by Get and Update on an unknown holding id.
// Delete is exempt: removing an absent id is a no-op.
var ErrNotFound = errors.New("holding not found")
