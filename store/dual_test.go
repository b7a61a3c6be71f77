package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/avinashs/navtrack"
)

// brokenStore fails every call, like a remote without connectivity.
type brokenStore struct{}

var errNoRoute = errors.New("no route to host")

func (brokenStore) List(owner string) ([]navtrack.Holding, error) { return nil, errNoRoute }
func (brokenStore) Get(id string) (navtrack.Holding, error) {
	return navtrack.Holding{}, errNoRoute
}
func (brokenStore) Insert(h *navtrack.Holding) (string, error) { return "", errNoRoute }
func (brokenStore) Update(id string, p navtrack.Patch) error   { return errNoRoute }
func (brokenStore) Delete(id string) error                     { return errNoRoute }

func newTestDualStore(t *testing.T) (*DualStore, *FileStore, *FileStore) {
	t.Helper()
	dir := t.TempDir()
	remote := NewFileStore(filepath.Join(dir, "remote.csv"), "INR")
	mirror := NewFileStore(filepath.Join(dir, "mirror.csv"), "INR")
	return NewDualStore(remote, mirror), remote, mirror
}

func TestDualStore_insertReachesBothBackends(t *testing.T) {
	s, remote, mirror := newTestDualStore(t)
	h := elss("Me")
	id, err := s.Insert(&h)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := remote.Get(id); err != nil {
		t.Errorf("remote misses the inserted holding: %v", err)
	}
	if _, err := mirror.Get(id); err != nil {
		t.Errorf("mirror misses the inserted holding: %v", err)
	}
}

func TestDualStore_remoteDownDegradesWrites(t *testing.T) {
	dir := t.TempDir()
	mirror := NewFileStore(filepath.Join(dir, "mirror.csv"), "INR")
	s := NewDualStore(brokenStore{}, mirror)

	h := elss("Me")
	id, err := s.Insert(&h)
	var degraded *DegradedError
	if !errors.As(err, &degraded) {
		t.Fatalf("Insert() error = %v, want a DegradedError", err)
	}
	if degraded.Backend != "remote" {
		t.Errorf("degraded backend = %q, want remote", degraded.Backend)
	}
	if id == "" {
		t.Fatal("a degraded insert still returns the id")
	}
	if _, err := mirror.Get(id); err != nil {
		t.Fatalf("the mirror did not keep the degraded insert: %v", err)
	}

	// reads fall back to the mirror
	holdings, err := s.List("Me")
	if err != nil {
		t.Fatalf("List() error = %v with the remote down", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("List() = %d holdings from the mirror, want 1", len(holdings))
	}

	nav := navtrack.M(90, "INR")
	err = s.Update(id, navtrack.Patch{CurrentNAV: &nav})
	if !errors.As(err, &degraded) || degraded.Op != "update" {
		t.Fatalf("Update() error = %v, want a remote DegradedError", err)
	}
	got, _ := mirror.Get(id)
	if !got.CurrentNAV.Equal(nav) {
		t.Errorf("mirror NAV after degraded update = %v, want %v", got.CurrentNAV, nav)
	}
}

func TestDualStore_bothBackendsDownIsFailure(t *testing.T) {
	s := NewDualStore(brokenStore{}, brokenStore{})
	h := elss("Me")
	_, err := s.Insert(&h)
	if err == nil {
		t.Fatal("Insert() error = nil with both backends down")
	}
	var degraded *DegradedError
	if errors.As(err, &degraded) {
		t.Fatalf("Insert() error = %v, both backends failing is not a degraded success", err)
	}
}

func TestDualStore_invalidLotTouchesNoBackend(t *testing.T) {
	s, remote, mirror := newTestDualStore(t)
	h := elss("Me")
	h.Amount = navtrack.Money{}
	h.Units = navtrack.Quantity{}
	if _, err := s.Insert(&h); !errors.Is(err, navtrack.ErrInvalidLot) {
		t.Fatalf("Insert() error = %v, want ErrInvalidLot", err)
	}
	if all, _ := remote.List(""); len(all) != 0 {
		t.Error("a rejected lot reached the remote")
	}
	if all, _ := mirror.List(""); len(all) != 0 {
		t.Error("a rejected lot reached the mirror")
	}
}

func TestDualStore_syncRepairsBothDirections(t *testing.T) {
	s, remote, mirror := newTestDualStore(t)

	// one holding written while the remote was down, one written from
	// another machine straight to the remote
	onlyMirror := elss("Me")
	if _, err := mirror.Insert(&onlyMirror); err != nil {
		t.Fatal(err)
	}
	onlyRemote := elss("Me")
	onlyRemote.SchemeCode = "120716"
	onlyRemote.Name = "UTI Nifty 50 Index Fund - Growth"
	if _, err := remote.Insert(&onlyRemote); err != nil {
		t.Fatal(err)
	}

	pushed, pulled, err := s.Sync()
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if pushed != 1 || pulled != 1 {
		t.Fatalf("Sync() = %d pushed, %d pulled, want 1 and 1", pushed, pulled)
	}
	if _, err := remote.Get(onlyMirror.ID); err != nil {
		t.Errorf("mirror-only holding did not reach the remote: %v", err)
	}
	if _, err := mirror.Get(onlyRemote.ID); err != nil {
		t.Errorf("remote-only holding did not reach the mirror: %v", err)
	}

	// a second pass finds nothing to move
	pushed, pulled, err = s.Sync()
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if pushed != 0 || pulled != 0 {
		t.Errorf("second Sync() = %d pushed, %d pulled, want 0 and 0", pushed, pulled)
	}
}

func TestDualStore_syncWithUnreachableRemote(t *testing.T) {
	dir := t.TempDir()
	mirror := NewFileStore(filepath.Join(dir, "mirror.csv"), "INR")
	s := NewDualStore(brokenStore{}, mirror)
	if _, _, err := s.Sync(); err == nil {
		t.Fatal("Sync() error = nil with the remote unreachable")
	}
}
