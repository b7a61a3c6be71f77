// Package mfapi resolves the latest NAV of a single scheme through the
// mfapi.in JSON endpoint. It is the secondary quote source, consulted for
// coded lots that the full NAV list does not carry.
package mfapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/amfi"
	"github.com/avinashs/navtrack/date"
	"github.com/shopspring/decimal"
)

// DefaultURL is the public mfapi.in base endpoint.
const DefaultURL = "https://api.mfapi.in/mf"

// navDateFormat is the date format of the payload ("26-08-2026").
const navDateFormat = "02-01-2006"

// Client queries the latest NAV for one scheme code at a time.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a Client on the default endpoint with an explicit
// fetch timeout.
func NewClient() *Client {
	return &Client{
		URL:  DefaultURL,
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
}

// Latest returns the latest published quote for the given scheme code.
// Transport and payload failures are reported as the feed being
// unavailable.
func (c *Client) Latest(code string) (navtrack.Quote, error) {
	// https://api.mfapi.in/mf/119551/latest
	// {
	//   "meta": { "scheme_code": 119551, "scheme_name": "Aditya Birla ..." },
	//   "data": [ { "date": "26-08-2026", "nav": "103.30170" } ],
	//   "status": "SUCCESS"
	// }
	addr := fmt.Sprintf("%s/%s/latest", c.URL, url.PathEscape(code))

	var jobj any
	if err := jwget(c.HTTP, addr, &jobj); err != nil {
		return navtrack.Quote{}, fmt.Errorf("%w: %v", amfi.ErrUnavailable, err)
	}

	name, _ := pathString(jobj, "$.meta.scheme_name")

	navStr, err := pathString(jobj, "$.data[0].nav")
	if err != nil {
		return navtrack.Quote{}, fmt.Errorf("%w: scheme %s: %v", amfi.ErrUnavailable, code, err)
	}
	nav, err := decimal.NewFromString(strings.ReplaceAll(navStr, ",", ""))
	if err != nil {
		return navtrack.Quote{}, fmt.Errorf("%w: scheme %s: non-numeric nav %q", amfi.ErrUnavailable, code, navStr)
	}

	var on date.Date
	if dateStr, err := pathString(jobj, "$.data[0].date"); err == nil {
		if t, err := time.Parse(navDateFormat, dateStr); err == nil {
			on = date.New(t.Date())
		}
	}

	return navtrack.Quote{Code: code, Name: name, NAV: nav, On: on}, nil
}

// pathString extracts a string value from a parsed json document.
func pathString(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v).String(), nil
	default:
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
