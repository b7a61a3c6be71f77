package navtrack

import (
	"errors"
	"testing"
	"time"

	"github.com/avinashs/navtrack/date"
	"github.com/shopspring/decimal"
)

// memStore is a minimal in-memory Store for reconciliation tests.
type memStore struct {
	holdings []Holding
	updates  int
}

func (s *memStore) List(owner string) ([]Holding, error) {
	out := make([]Holding, len(s.holdings))
	copy(out, s.holdings)
	return out, nil
}

func (s *memStore) Get(id string) (Holding, error) {
	for _, h := range s.holdings {
		if h.ID == id {
			return h, nil
		}
	}
	return Holding{}, ErrNotFound
}

func (s *memStore) Insert(h *Holding) (string, error) {
	if err := h.Complete(); err != nil {
		return "", err
	}
	s.holdings = append(s.holdings, *h)
	return h.ID, nil
}

func (s *memStore) Update(id string, p Patch) error {
	for i := range s.holdings {
		if s.holdings[i].ID == id {
			if err := s.holdings[i].Apply(p); err != nil {
				return err
			}
			s.updates++
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) Delete(id string) error { return nil }

// memFeed serves a fixed quote set, or an error.
type memFeed struct {
	quotes  []Quote
	err     error
	fetches int
}

func (f *memFeed) Quotes() ([]Quote, error)  { f.fetches++; return f.quotes, f.err }
func (f *memFeed) Refresh() ([]Quote, error) { f.fetches++; return f.quotes, f.err }

func q(code, name string, nav float64) Quote {
	return Quote{Code: code, Name: name, NAV: decimal.NewFromFloat(nav), On: date.Today()}
}

func TestMatch_exactCodeBeatsSubstring(t *testing.T) {
	// the second quote's name contains the holding name, but the code of
	// the third one matches exactly and must win
	quotes := []Quote{
		q("100", "Axis Bluechip Fund - Growth", 45),
		q("200", "HDFC Bluechip Fund - Direct", 90),
		q("300", "Some Other Scheme", 12),
	}
	h := Holding{SchemeCode: "300", Name: "Bluechip"}
	got, ok := Match(h, quotes)
	if !ok || got.Code != "300" {
		t.Fatalf("Match() = %v, %v, want code 300", got.Code, ok)
	}
}

func TestMatch_substringFirstWins(t *testing.T) {
	quotes := []Quote{
		q("100", "Axis Bluechip Fund - Growth", 45),
		q("200", "HDFC Bluechip Fund - Direct", 90),
	}
	h := Holding{Name: "bluechip"} // case-insensitive
	got, ok := Match(h, quotes)
	if !ok || got.Code != "100" {
		t.Fatalf("Match() = %v, %v, want first match 100", got.Code, ok)
	}
}

func TestMatch_codedHoldingNeverFallsBackToName(t *testing.T) {
	quotes := []Quote{q("100", "Axis Bluechip Fund", 45)}
	h := Holding{SchemeCode: "999", Name: "Bluechip"}
	if _, ok := Match(h, quotes); ok {
		t.Fatal("Match() matched by name despite a non-matching scheme code")
	}
}

func TestMatch_unidentifiedHolding(t *testing.T) {
	quotes := []Quote{q("100", "Axis Bluechip Fund", 45)}
	if _, ok := Match(Holding{}, quotes); ok {
		t.Fatal("Match() matched a holding with neither code nor name")
	}
}

func newTestHolding(id, code, name string) Holding {
	h := Holding{
		ID: id, Owner: "Me", SchemeCode: code, Name: name,
		PurchaseDate: date.New(2024, time.June, 1),
		PurchaseNAV:  INR(10), Amount: INR(1000),
		CreatedAt: time.Now(),
	}
	h.Complete()
	return h
}

func TestReconciler_Refresh(t *testing.T) {
	st := &memStore{holdings: []Holding{
		newTestHolding("a", "100", "Axis Bluechip Fund"),
		newTestHolding("b", "", "HDFC Bluechip"),
		newTestHolding("c", "999", "No Such Scheme"),
	}}
	feed := &memFeed{quotes: []Quote{
		q("100", "Axis Bluechip Fund - Growth", 12.5),
		q("200", "HDFC Bluechip Fund - Direct", 90),
	}}
	r := &Reconciler{Store: st, Feed: feed, Currency: "INR"}

	updated, err := r.Refresh("Me", false)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if updated != 2 {
		t.Fatalf("Refresh() = %d, want 2", updated)
	}

	a, _ := st.Get("a")
	if !a.CurrentNAV.Equal(INR(12.5)) {
		t.Errorf("holding a CurrentNAV = %v, want 12.5", a.CurrentNAV.Decimal())
	}
	if value, ok := a.CurrentValue(); !ok || !value.Equal(INR(1250)) {
		t.Errorf("holding a CurrentValue = %v, %v, want 1250", value.Decimal(), ok)
	}
	b, _ := st.Get("b")
	if !b.CurrentNAV.Equal(INR(90)) {
		t.Errorf("holding b CurrentNAV = %v, want 90", b.CurrentNAV.Decimal())
	}
	c, _ := st.Get("c")
	if c.HasCurrentNAV() {
		t.Errorf("holding c got a NAV without any match")
	}
}

func TestReconciler_Refresh_feedDown(t *testing.T) {
	holding := newTestHolding("a", "100", "Axis Bluechip Fund")
	holding.CurrentNAV = INR(11)
	st := &memStore{holdings: []Holding{holding}}
	feed := &memFeed{err: errors.New("feed unavailable")}
	r := &Reconciler{Store: st, Feed: feed, Currency: "INR"}

	updated, err := r.Refresh("Me", false)
	if err == nil {
		t.Fatal("Refresh() error = nil, want feed error")
	}
	if updated != 0 {
		t.Fatalf("Refresh() = %d, want 0", updated)
	}
	a, _ := st.Get("a")
	if !a.CurrentNAV.Equal(INR(11)) {
		t.Errorf("CurrentNAV = %v, the feed being down must not touch it", a.CurrentNAV.Decimal())
	}
}

func TestReconciler_Refresh_noMatchKeepsPreviousNAV(t *testing.T) {
	holding := newTestHolding("a", "100", "Axis Bluechip Fund")
	holding.CurrentNAV = INR(11)
	st := &memStore{holdings: []Holding{holding}}
	feed := &memFeed{quotes: []Quote{q("200", "Another Scheme", 5)}}
	r := &Reconciler{Store: st, Feed: feed, Currency: "INR"}

	updated, err := r.Refresh("Me", false)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if updated != 0 {
		t.Fatalf("Refresh() = %d, want 0", updated)
	}
	a, _ := st.Get("a")
	if !a.CurrentNAV.Equal(INR(11)) {
		t.Errorf("CurrentNAV = %v, a failed match must not clear it", a.CurrentNAV.Decimal())
	}
}

func TestReconciler_Refresh_emptyStore(t *testing.T) {
	feed := &memFeed{quotes: []Quote{q("100", "Axis Bluechip Fund", 45)}}
	r := &Reconciler{Store: &memStore{}, Feed: feed, Currency: "INR"}
	updated, err := r.Refresh("Me", false)
	if err != nil || updated != 0 {
		t.Fatalf("Refresh() = %d, %v, want 0, nil", updated, err)
	}
	if feed.fetches != 0 {
		t.Errorf("feed fetched %d times for an empty store, want 0", feed.fetches)
	}
}

// latestFake is a LatestSource for a single scheme.
type latestFake struct {
	code string
	nav  float64
	err  error
}

func (l *latestFake) Latest(code string) (Quote, error) {
	if l.err != nil {
		return Quote{}, l.err
	}
	if code != l.code {
		return Quote{}, errors.New("unknown scheme")
	}
	return q(code, "fallback scheme", l.nav), nil
}

func TestReconciler_Refresh_fallback(t *testing.T) {
	st := &memStore{holdings: []Holding{newTestHolding("a", "999", "Niche Fund")}}
	feed := &memFeed{quotes: []Quote{q("100", "Axis Bluechip Fund", 45)}}
	r := &Reconciler{Store: st, Feed: feed, Currency: "INR", Fallback: &latestFake{code: "999", nav: 17}}

	updated, err := r.Refresh("Me", false)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if updated != 1 {
		t.Fatalf("Refresh() = %d, want 1", updated)
	}
	a, _ := st.Get("a")
	if !a.CurrentNAV.Equal(INR(17)) {
		t.Errorf("CurrentNAV = %v, want 17 from the fallback source", a.CurrentNAV.Decimal())
	}
}

func TestReconciler_Refresh_fallbackFailureIsNotFatal(t *testing.T) {
	st := &memStore{holdings: []Holding{newTestHolding("a", "999", "Niche Fund")}}
	feed := &memFeed{quotes: []Quote{q("100", "Axis Bluechip Fund", 45)}}
	r := &Reconciler{Store: st, Feed: feed, Currency: "INR", Fallback: &latestFake{err: errors.New("boom")}}

	updated, err := r.Refresh("Me", false)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if updated != 0 {
		t.Fatalf("Refresh() = %d, want 0", updated)
	}
}
