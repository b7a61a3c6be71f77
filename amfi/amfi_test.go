package amfi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const sampleFeed = `Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
Open Ended Schemes(Debt Scheme - Banking and PSU Fund)
Aditya Birla Sun Life Mutual Fund

119551;INF209KA12Z1;INF209K01YM2;Aditya Birla Sun Life Banking & PSU Debt Fund - DIRECT - IDCW;103.3017;26-Aug-2026
119552;INF209KA13Z9;-;Aditya Birla Sun Life Banking & PSU Debt Fund - Regular - Growth;1,234.5678;26-Aug-2026
119553;INF209KA14Z7;-;Suspended Scheme;N.A.;26-Aug-2026
119554;INF209KA15Z4;-;Bad Date Scheme;10.5;someday
119551;INF209KA12Z1;INF209K01YM2;Duplicate Of The First;999.0;26-Aug-2026
too;short;row
120716;INF204K01K15;-;UTI Nifty 50 Index Fund - Growth;151.0560;26-Aug-2026
`

func TestParse(t *testing.T) {
	quotes, err := Parse(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("Parse() returned %d quotes, want 3", len(quotes))
	}

	// header, section names, suspended, bad date and short rows are all
	// skipped; the duplicated code keeps its first occurrence
	if quotes[0].Code != "119551" || !quotes[0].NAV.Equal(decimal.RequireFromString("103.3017")) {
		t.Errorf("first quote = %v %v, want 119551 at 103.3017", quotes[0].Code, quotes[0].NAV)
	}
	if quotes[1].Code != "119552" || !quotes[1].NAV.Equal(decimal.RequireFromString("1234.5678")) {
		t.Errorf("second quote = %v %v, want thousands separator stripped", quotes[1].Code, quotes[1].NAV)
	}
	if quotes[2].Code != "120716" {
		t.Errorf("third quote = %v, want 120716", quotes[2].Code)
	}
	if got := quotes[0].On.String(); got != "2026-08-26" {
		t.Errorf("quote date = %s, want 2026-08-26", got)
	}
}

func TestParse_nothingUsable(t *testing.T) {
	if _, err := Parse(strings.NewReader("<html>not a feed</html>")); err == nil {
		t.Fatal("Parse() error = nil on a garbage body")
	}
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient()
	c.URL = srv.URL
	c.HTTP = srv.Client()
	return c
}

func TestClient_cacheWithinTTL(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.Quotes(); err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if _, err := c.Quotes(); err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if fetches != 1 {
		t.Errorf("feed fetched %d times within the TTL, want 1", fetches)
	}

	// a forced refresh bypasses the cache
	if _, err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if fetches != 2 {
		t.Errorf("feed fetched %d times after a forced refresh, want 2", fetches)
	}

	// an expired cache refetches
	c.TTL = time.Nanosecond
	time.Sleep(time.Millisecond)
	if _, err := c.Quotes(); err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if fetches != 3 {
		t.Errorf("feed fetched %d times after expiry, want 3", fetches)
	}
}

func TestClient_unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.Quotes(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Quotes() error = %v, want ErrUnavailable", err)
	}

	// transport failure maps to the same error
	srv.Close()
	if _, err := c.Refresh(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Refresh() error = %v, want ErrUnavailable", err)
	}
}

func TestClient_failedRefreshKeepsCache(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	quotes, err := c.Quotes()
	if err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}

	healthy = false
	if _, err := c.Refresh(); err == nil {
		t.Fatal("Refresh() error = nil on a failing feed")
	}
	// the previous snapshot is still served within its TTL
	again, err := c.Quotes()
	if err != nil {
		t.Fatalf("Quotes() error = %v after failed refresh", err)
	}
	if len(again) != len(quotes) {
		t.Errorf("cache lost after a failed refresh: %d quotes, want %d", len(again), len(quotes))
	}
}
