package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestStore is the remote table backend, a PostgREST-style API as hosted
// by Supabase: filtered select, insert, update-by-id and delete-by-id over
// one table whose columns mirror the local CSV file.
type RestStore struct {
	// URL is the REST root, e.g. "https://xyz.supabase.co/rest/v1".
	URL string
	// Key is the API key, sent as both apikey and bearer token.
	Key string
	// Table is the table name, "holdings" by default.
	Table string
	// Currency denominates all monetary columns.
	Currency string

	HTTP *http.Client
}

// NewRestStore returns a RestStore on the given API root.
func NewRestStore(apiURL, key, currency string) *RestStore {
	return &RestStore{
		URL:      apiURL,
		Key:      key,
		Table:    "holdings",
		Currency: currency,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

// jholding is the wire form of a holding, one row of the remote table.
type jholding struct {
	ID           string           `json:"id"`
	Owner        string           `json:"owner"`
	SchemeCode   string           `json:"scheme_code"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	PurchaseDate date.Date        `json:"purchase_date"`
	PurchaseNAV  decimal.Decimal  `json:"purchase_nav"`
	Units        decimal.Decimal  `json:"units"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrentNAV   *decimal.Decimal `json:"current_nav"`
	Category     string           `json:"category"`
	Rating       string           `json:"rating"`
	Notes        string           `json:"notes"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (s *RestStore) encode(h navtrack.Holding) jholding {
	j := jholding{
		ID:           h.ID,
		Owner:        h.Owner,
		SchemeCode:   h.SchemeCode,
		Name:         h.Name,
		Type:         h.Type,
		PurchaseDate: h.PurchaseDate,
		PurchaseNAV:  h.PurchaseNAV.Decimal(),
		Units:        h.Units.Decimal(),
		Amount:       h.Amount.Decimal(),
		Category:     h.Category,
		Rating:       h.Rating,
		Notes:        h.Notes,
		CreatedAt:    h.CreatedAt.UTC(),
	}
	if h.HasCurrentNAV() {
		nav := h.CurrentNAV.Decimal()
		j.CurrentNAV = &nav
	}
	return j
}

func (s *RestStore) decode(j jholding) navtrack.Holding {
	h := navtrack.Holding{
		ID:           j.ID,
		Owner:        j.Owner,
		SchemeCode:   j.SchemeCode,
		Name:         j.Name,
		Type:         j.Type,
		PurchaseDate: j.PurchaseDate,
		PurchaseNAV:  navtrack.NewMoney(j.PurchaseNAV, s.Currency),
		Units:        navtrack.Q(j.Units),
		Amount:       navtrack.NewMoney(j.Amount, s.Currency),
		Category:     j.Category,
		Rating:       j.Rating,
		Notes:        j.Notes,
		CreatedAt:    j.CreatedAt,
	}
	if j.CurrentNAV != nil {
		h.CurrentNAV = navtrack.NewMoney(*j.CurrentNAV, s.Currency)
	}
	return h
}

func (s *RestStore) List(owner string) ([]navtrack.Holding, error) {
	query := "select=*&order=created_at.asc"
	if owner != "" {
		query += "&owner=eq." + url.QueryEscape(owner)
	}
	var rows []jholding
	if err := s.do(http.MethodGet, query, nil, &rows); err != nil {
		return nil, err
	}
	holdings := make([]navtrack.Holding, 0, len(rows))
	for _, j := range rows {
		holdings = append(holdings, s.decode(j))
	}
	return holdings, nil
}

func (s *RestStore) Get(id string) (navtrack.Holding, error) {
	var rows []jholding
	if err := s.do(http.MethodGet, "select=*&id=eq."+url.QueryEscape(id), nil, &rows); err != nil {
		return navtrack.Holding{}, err
	}
	if len(rows) == 0 {
		return navtrack.Holding{}, navtrack.ErrNotFound
	}
	return s.decode(rows[0]), nil
}

func (s *RestStore) Insert(h *navtrack.Holding) (string, error) {
	if err := h.Complete(); err != nil {
		return "", err
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	if err := s.do(http.MethodPost, "", []jholding{s.encode(*h)}, nil); err != nil {
		return "", err
	}
	return h.ID, nil
}

func (s *RestStore) Update(id string, p navtrack.Patch) error {
	h, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := h.Apply(p); err != nil {
		return err
	}
	return s.do(http.MethodPatch, "id=eq."+url.QueryEscape(id), s.encode(h), nil)
}

func (s *RestStore) Delete(id string) error {
	// the table API deletes zero rows without complaint, which matches
	// the idempotent contract
	return s.do(http.MethodDelete, "id=eq."+url.QueryEscape(id), nil, nil)
}

// do performs one table API call. A non-nil body is sent as JSON, and a
// non-nil out receives the decoded response.
func (s *RestStore) do(method, query string, body, out any) error {
	addr := s.URL + "/" + s.Table
	if query != "" {
		addr += "?" + query
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, addr, payload)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.Key)
	req.Header.Set("Authorization", "Bearer "+s.Key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("cannot %s %s: %w", method, addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cannot %s %v/%v: %v: %s", method, req.URL.Host, req.URL.Path, resp.Status, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
