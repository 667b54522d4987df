// Package memstore provides in-memory stores with the same semantics as the
// DynamoDB ones. The dev server uses them when no AWS endpoint is
// configured, and the tests use them everywhere.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

// ErrConflict mirrors a failed conditional write.
var ErrConflict = errors.New("conditional check failed")

// Groups is an in-memory group store.
type Groups struct {
	mu    sync.Mutex
	items map[string]models.Group
	order []string
}

// NewGroups returns an empty group store.
func NewGroups() *Groups { return &Groups{items: map[string]models.Group{}} }

func (s *Groups) Put(_ context.Context, g models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[g.ID]; ok {
		return apperr.Storage("put group", ErrConflict)
	}
	s.items[g.ID] = g
	s.order = append(s.order, g.ID)
	return nil
}

func (s *Groups) Get(_ context.Context, id string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.items[id]
	if !ok {
		return models.Group{}, &apperr.NotFoundError{Kind: "group", ID: id}
	}
	return g, nil
}

func (s *Groups) List(_ context.Context) ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Group, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Images is an in-memory image store keyed by (groupId, timestamp) with an
// imageId index.
type Images struct {
	mu      sync.Mutex
	byGroup map[string][]models.Image
	byID    map[string]models.Image
}

// NewImages returns an empty image store.
func NewImages() *Images {
	return &Images{byGroup: map[string][]models.Image{}, byID: map[string]models.Image{}}
}

// Put inserts img, moving its timestamp forward past any taken sort key
// in the group. It returns the record as stored.
func (s *Images) Put(_ context.Context, img models.Image) (models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.byGroup[img.GroupID]
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Timestamp >= img.Timestamp })
	for i < len(rows) && rows[i].Timestamp == img.Timestamp {
		next, err := models.NextTimestamp(img.Timestamp)
		if err != nil {
			return models.Image{}, apperr.Storage("put image", errors.Join(ErrConflict, err))
		}
		img.Timestamp = next
		i++
	}
	rows = append(rows, models.Image{})
	copy(rows[i+1:], rows[i:])
	rows[i] = img
	s.byGroup[img.GroupID] = rows
	s.byID[img.ImageID] = img
	return img, nil
}

func (s *Images) ListByGroup(_ context.Context, groupID string) ([]models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Image{}, s.byGroup[groupID]...), nil
}

func (s *Images) GetByImageID(_ context.Context, imageID string) (models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.byID[imageID]
	if !ok {
		return models.Image{}, &apperr.NotFoundError{Kind: "image", ID: imageID}
	}
	return img, nil
}

// Ledger is an in-memory notification dedup ledger.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]models.LedgerEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{entries: map[string]models.LedgerEntry{}} }

func (l *Ledger) Claim(_ context.Context, e models.LedgerEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[e.DedupKey]; ok {
		return false, nil
	}
	l.entries[e.DedupKey] = e
	return true, nil
}

func (l *Ledger) Release(_ context.Context, dedupKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, dedupKey)
	return nil
}

// Entries returns a snapshot of the claimed entries.
func (l *Ledger) Entries() []models.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DedupKey < out[j].DedupKey })
	return out
}
