package navtrack

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// This file contains the reconciliation engine: matching stored lots
// against the feed's quote set and refreshing their cached current NAV.

// QuoteProvider is the contract of the price feed adapter.
type QuoteProvider interface {
	// Quotes returns the current quote set, served from cache within the
	// provider's TTL.
	Quotes() ([]Quote, error)
	// Refresh bypasses the cache and replaces the quote set.
	Refresh() ([]Quote, error)
}

// LatestSource resolves the latest quote for a single scheme code. It is
// an optional secondary source consulted for coded lots that the full
// feed snapshot does not list.
type LatestSource interface {
	Latest(code string) (Quote, error)
}

// Match finds at most one quote for a lot. An exact scheme-code match wins
// deterministically; otherwise the lot's name is matched as a
// case-insensitive substring of the quote names, first in feed order.
// The substring fallback is first-match-wins, not a scored match; see the
// "matching" documentation topic.
func Match(h Holding, quotes []Quote) (Quote, bool) {
	if h.SchemeCode != "" {
		for _, q := range quotes {
			if q.Code == h.SchemeCode {
				return q, true
			}
		}
		return Quote{}, false
	}
	if h.Name == "" {
		return Quote{}, false
	}
	name := strings.ToLower(h.Name)
	for _, q := range quotes {
		if strings.Contains(strings.ToLower(q.Name), name) {
			return q, true
		}
	}
	return Quote{}, false
}

// Reconciler brings the lots' cached current NAV up to date from the feed.
type Reconciler struct {
	Store Store
	Feed  QuoteProvider
	// Fallback, when set, is consulted for coded lots absent from the
	// feed snapshot.
	Fallback LatestSource
	// Currency is the currency quotes are denominated in.
	Currency string
}

// Refresh matches each of the owner's lots to a quote and writes the
// refreshed NAV back to the store. It returns the number of lots updated
// this pass; zero updates is a signal, not an error.
//
// When the feed is unavailable the pass updates nothing and every
// previously known NAV is preserved. A lot with no match keeps its
// previous NAV too.
func (r *Reconciler) Refresh(owner string, force bool) (int, error) {
	holdings, err := r.Store.List(owner)
	if err != nil {
		return 0, fmt.Errorf("cannot list holdings: %w", err)
	}
	if len(holdings) == 0 {
		return 0, nil
	}

	var quotes []Quote
	if force {
		quotes, err = r.Feed.Refresh()
	} else {
		quotes, err = r.Feed.Quotes()
	}
	if err != nil {
		return 0, err
	}

	var updated int
	var errs error
	for _, h := range holdings {
		if !h.Matchable() {
			continue
		}
		q, ok := Match(h, quotes)
		if !ok && h.SchemeCode != "" && r.Fallback != nil {
			q, ok = r.latest(h.SchemeCode)
		}
		if !ok || !q.NAV.IsPositive() {
			// keep the previously known NAV, a failed match is not a reset
			continue
		}
		nav := q.Price(r.Currency)
		if err := r.Store.Update(h.ID, Patch{CurrentNAV: &nav}); err != nil {
			errs = errors.Join(errs, fmt.Errorf("cannot refresh holding %q: %w", h.ID, err))
			continue
		}
		updated++
	}
	return updated, errs
}

// latest consults the fallback source, treating its failure as a missed
// match rather than an error of the pass.
func (r *Reconciler) latest(code string) (Quote, bool) {
	q, err := r.Fallback.Latest(code)
	if err != nil {
		log.Printf("fallback lookup for scheme %s failed (ignored): %v", code, err)
		return Quote{}, false
	}
	return q, true
}
