// Package amfi fetches the AMFI daily NAV list, the price feed of the
// tracker.
//
// The feed is a plain-HTTP, semicolon-delimited text resource listing every
// scheme with its latest NAV:
//
//	Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
//	119551;INF209KA12Z1;INF209K01YM2;Aditya Birla Sun Life Banking & PSU Debt Fund;103.3017;26-Aug-2026
//
// Interleaved with data rows, the feed carries section headers, fund-house
// names and blank lines. The parser skips whatever does not parse as a data
// row rather than failing the whole fetch.
package amfi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/date"
	"github.com/shopspring/decimal"
)

// DefaultURL is the public AMFI NAVAll endpoint.
const DefaultURL = "https://www.amfiindia.com/spages/NAVAll.txt"

// navDateFormat is the date format used by the feed ("26-Aug-2026").
const navDateFormat = "02-Jan-2006"

// ErrUnavailable reports that the feed could not be fetched or parsed.
// Reconciliation treats it as "nothing updated this pass", never as a
// reason to clear previously known NAVs.
var ErrUnavailable = errors.New("NAV feed unavailable")

// Client fetches the NAV list and caches the parsed quote set for TTL.
// The zero value is not usable; use NewClient.
type Client struct {
	URL  string
	HTTP *http.Client
	TTL  time.Duration

	mu        sync.Mutex
	quotes    []navtrack.Quote
	fetchedAt time.Time
}

// NewClient returns a Client on the default endpoint, with a one hour
// cache and an explicit fetch timeout.
func NewClient() *Client {
	return &Client{
		URL:  DefaultURL,
		HTTP: &http.Client{Timeout: 30 * time.Second},
		TTL:  time.Hour,
	}
}

// Quotes returns the current quote set, served from the cache while it is
// younger than TTL.
func (c *Client) Quotes() ([]navtrack.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quotes != nil && time.Since(c.fetchedAt) < c.TTL {
		return c.quotes, nil
	}
	return c.refresh()
}

// Refresh bypasses the cache, refetches the feed and atomically replaces
// the cached quote set. On failure the previous cache is kept.
func (c *Client) Refresh() ([]navtrack.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh()
}

// refresh is called with the mutex held.
func (c *Client) refresh() ([]navtrack.Quote, error) {
	resp, err := c.HTTP.Get(c.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnavailable, c.URL, resp.Status)
	}
	quotes, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.quotes = quotes
	c.fetchedAt = time.Now()
	return c.quotes, nil
}

// Parse reads the NAV list, skipping lines that are not data rows. Rows
// with a missing or non-numeric NAV are dropped, and duplicated scheme
// codes keep the first occurrence. It fails only when the whole resource
// yields no quote at all.
func Parse(r io.Reader) ([]navtrack.Quote, error) {
	quotes := make([]navtrack.Quote, 0, 10000)
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		q, ok := parseRow(scanner.Text())
		if !ok || seen[q.Code] {
			continue
		}
		seen[q.Code] = true
		quotes = append(quotes, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, errors.New("no parsable NAV rows")
	}
	return quotes, nil
}

// parseRow parses one "code;isin;isin;name;nav;date" row.
func parseRow(line string) (navtrack.Quote, bool) {
	fields := strings.Split(line, ";")
	if len(fields) != 6 {
		return navtrack.Quote{}, false
	}
	code := strings.TrimSpace(fields[0])
	name := strings.TrimSpace(fields[3])
	if code == "" || name == "" {
		return navtrack.Quote{}, false
	}
	// NAV may carry thousands separators, or be "N.A." for suspended schemes.
	nav, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(fields[4]), ",", ""))
	if err != nil {
		return navtrack.Quote{}, false
	}
	t, err := time.Parse(navDateFormat, strings.TrimSpace(fields[5]))
	if err != nil {
		return navtrack.Quote{}, false
	}
	return navtrack.Quote{
		Code: code,
		Name: name,
		NAV:  nav,
		On:   date.New(t.Date()),
	}, true
}
