// Package store implements the holding persistence backends: a local CSV
// mirror file, a remote hosted table, and a dual write-through combination
// of both. All backends share one column set, so a mirror row and a remote
// row are interchangeable.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/date"
	"github.com/google/uuid"
)

// columns is the shared column order of the mirror file and the remote table.
var columns = []string{
	"id", "owner", "scheme_code", "name", "type",
	"purchase_date", "purchase_nav", "units", "amount", "current_nav",
	"category", "rating", "notes", "created_at",
}

// FileStore keeps the holdings in one flat CSV file. The file is read
// fully into memory and rewritten whole on every mutation; there is no
// append path.
type FileStore struct {
	path     string
	currency string
}

// NewFileStore returns a FileStore on the given file. A missing file is an
// empty store; it is created on the first write.
func NewFileStore(path, currency string) *FileStore {
	return &FileStore{path: path, currency: currency}
}

func (s *FileStore) List(owner string) ([]navtrack.Holding, error) {
	holdings, err := s.load()
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return holdings, nil
	}
	kept := holdings[:0]
	for _, h := range holdings {
		if h.Owner == owner {
			kept = append(kept, h)
		}
	}
	return kept, nil
}

func (s *FileStore) Get(id string) (navtrack.Holding, error) {
	holdings, err := s.load()
	if err != nil {
		return navtrack.Holding{}, err
	}
	for _, h := range holdings {
		if h.ID == id {
			return h, nil
		}
	}
	return navtrack.Holding{}, navtrack.ErrNotFound
}

func (s *FileStore) Insert(h *navtrack.Holding) (string, error) {
	if err := h.Complete(); err != nil {
		return "", err
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	holdings, err := s.load()
	if err != nil {
		return "", err
	}
	holdings = append(holdings, *h)
	return h.ID, s.save(holdings)
}

func (s *FileStore) Update(id string, p navtrack.Patch) error {
	holdings, err := s.load()
	if err != nil {
		return err
	}
	for i := range holdings {
		if holdings[i].ID == id {
			if err := holdings[i].Apply(p); err != nil {
				return err
			}
			return s.save(holdings)
		}
	}
	return navtrack.ErrNotFound
}

func (s *FileStore) Delete(id string) error {
	holdings, err := s.load()
	if err != nil {
		return err
	}
	kept := holdings[:0]
	for _, h := range holdings {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(holdings) {
		// already absent, and deleting twice is fine
		return nil
	}
	return s.save(kept)
}

// load reads the whole mirror file. A missing file is an empty store.
func (s *FileStore) load() ([]navtrack.Holding, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("format error in %q: %w", s.path, err)
	}

	holdings := make([]navtrack.Holding, 0, len(records))
	for i, rec := range records {
		if i == 0 && rec[0] == columns[0] {
			continue // header row
		}
		h, err := decodeRow(rec, s.currency)
		if err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", s.path, i+1, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// save rewrites the whole mirror file.
func (s *FileStore) save(holdings []navtrack.Holding) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", s.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return err
	}
	for _, h := range holdings {
		if err := w.Write(encodeRow(h)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeRow(h navtrack.Holding) []string {
	currentNAV := ""
	if h.HasCurrentNAV() {
		currentNAV = h.CurrentNAV.Decimal().String()
	}
	return []string{
		h.ID, h.Owner, h.SchemeCode, h.Name, h.Type,
		h.PurchaseDate.String(),
		h.PurchaseNAV.Decimal().String(),
		h.Units.String(),
		h.Amount.Decimal().String(),
		currentNAV,
		h.Category, h.Rating, h.Notes,
		h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeRow(rec []string, currency string) (h navtrack.Holding, err error) {
	h.ID, h.Owner, h.SchemeCode, h.Name, h.Type = rec[0], rec[1], rec[2], rec[3], rec[4]
	h.Category, h.Rating, h.Notes = rec[10], rec[11], rec[12]

	if h.PurchaseDate, err = date.Parse(rec[5]); err != nil {
		return h, err
	}
	if h.PurchaseNAV, err = navtrack.ParseMoney(rec[6], currency); err != nil {
		return h, err
	}
	if h.Units, err = navtrack.ParseQuantity(rec[7]); err != nil {
		return h, err
	}
	if h.Amount, err = navtrack.ParseMoney(rec[8], currency); err != nil {
		return h, err
	}
	if rec[9] != "" {
		if h.CurrentNAV, err = navtrack.ParseMoney(rec[9], currency); err != nil {
			return h, err
		}
	}
	if h.CreatedAt, err = time.Parse(time.RFC3339, rec[13]); err != nil {
		return h, err
	}
	return h, nil
}
