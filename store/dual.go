package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/avinashs/navtrack"
)

// DegradedError reports that exactly one of the two backends failed to
// accept a write. The operation itself succeeded: the user's data is safe
// on the other backend and nothing is rolled back. Callers decide policy.
type DegradedError struct {
	Backend string // "remote" or "mirror"
	Op      string
	Err     error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("%s backend failed on %s (data saved on the other backend): %v", e.Backend, e.Op, e.Err)
}

func (e *DegradedError) Unwrap() error { return e.Err }

// DualStore writes through to a durable remote table and a local mirror
// file. The remote is the canonical copy; the mirror is a best-effort
// cache that Sync brings back into agreement.
//
// Conflicting edits of the same id on both backends are not resolved:
// last writer wins. See the "sync" documentation topic.
type DualStore struct {
	Remote navtrack.Store
	Mirror navtrack.Store
}

// NewDualStore combines a remote and a mirror backend.
func NewDualStore(remote, mirror navtrack.Store) *DualStore {
	return &DualStore{Remote: remote, Mirror: mirror}
}

// List reads from the remote, falling back to the mirror when the remote
// is unreachable. Last-known data beats hard failure.
func (s *DualStore) List(owner string) ([]navtrack.Holding, error) {
	holdings, err := s.Remote.List(owner)
	if err != nil {
		log.Printf("remote list failed, serving the mirror: %v", err)
		return s.Mirror.List(owner)
	}
	return holdings, nil
}

// Get reads from the remote, falling back to the mirror on remote failure.
// ErrNotFound from the remote is authoritative, not a failure.
func (s *DualStore) Get(id string) (navtrack.Holding, error) {
	h, err := s.Remote.Get(id)
	if err != nil && !errors.Is(err, navtrack.ErrNotFound) {
		log.Printf("remote get failed, serving the mirror: %v", err)
		return s.Mirror.Get(id)
	}
	return h, err
}

// Insert validates the lot once, then writes it to both backends under
// the same id.
func (s *DualStore) Insert(h *navtrack.Holding) (string, error) {
	// validation failures surface before either backend is touched
	if err := h.Complete(); err != nil {
		return "", err
	}
	_, mirrorErr := s.Mirror.Insert(h)
	if mirrorErr == nil {
		// the mirror assigned id and creation time; the remote reuses them
		if _, err := s.Remote.Insert(h); err != nil {
			return h.ID, &DegradedError{Backend: "remote", Op: "insert", Err: err}
		}
		return h.ID, nil
	}
	if _, err := s.Remote.Insert(h); err != nil {
		return "", fmt.Errorf("insert failed on both backends: %w", mirrorErr)
	}
	return h.ID, &DegradedError{Backend: "mirror", Op: "insert", Err: mirrorErr}
}

func (s *DualStore) Update(id string, p navtrack.Patch) error {
	return s.write("update", func(b navtrack.Store) error { return b.Update(id, p) })
}

func (s *DualStore) Delete(id string) error {
	return s.write("delete", func(b navtrack.Store) error { return b.Delete(id) })
}

// write applies one mutation to both backends. Both failing is a failure;
// one failing is a degraded success.
func (s *DualStore) write(op string, f func(navtrack.Store) error) error {
	mirrorErr := f(s.Mirror)
	remoteErr := f(s.Remote)
	switch {
	case mirrorErr == nil && remoteErr == nil:
		return nil
	case mirrorErr != nil && remoteErr != nil:
		return fmt.Errorf("%s failed on both backends: %w", op, remoteErr)
	case remoteErr != nil:
		if errors.Is(remoteErr, navtrack.ErrNotFound) {
			break
		}
		return &DegradedError{Backend: "remote", Op: op, Err: remoteErr}
	default:
		if errors.Is(mirrorErr, navtrack.ErrNotFound) {
			break
		}
		return &DegradedError{Backend: "mirror", Op: op, Err: mirrorErr}
	}
	// one backend does not know the id: the stores have diverged, let
	// Sync repair what it can and report the missing id to the caller
	return navtrack.ErrNotFound
}

// Sync reconciles the two backends' holding sets by id. Holdings present
// only in the mirror are pushed to the remote; holdings present only in
// the remote are filled into the mirror. Running it twice in a row with
// no intervening writes performs no additional writes.
//
// Sync never merges two versions of the same id: conflicting edits stay
// last-writer-wins.
func (s *DualStore) Sync() (pushed, pulled int, err error) {
	remote, err := s.Remote.List("")
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read remote backend: %w", err)
	}
	mirror, err := s.Mirror.List("")
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read mirror backend: %w", err)
	}

	remoteIDs := make(map[string]bool, len(remote))
	for _, h := range remote {
		remoteIDs[h.ID] = true
	}
	mirrorIDs := make(map[string]bool, len(mirror))
	for _, h := range mirror {
		mirrorIDs[h.ID] = true
	}

	for _, h := range mirror {
		if remoteIDs[h.ID] {
			continue
		}
		h := h
		if _, err := s.Remote.Insert(&h); err != nil {
			return pushed, pulled, fmt.Errorf("cannot push holding %q to remote: %w", h.ID, err)
		}
		pushed++
	}
	for _, h := range remote {
		if mirrorIDs[h.ID] {
			continue
		}
		h := h
		if _, err := s.Mirror.Insert(&h); err != nil {
			return pushed, pulled, fmt.Errorf("cannot fill holding %q into mirror: %w", h.ID, err)
		}
		pulled++
	}
	return pushed, pulled, nil
}
