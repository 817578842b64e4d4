// Package drafts persists in-progress ad submissions between app sessions.
package drafts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown drafts and for drafts owned by someone else.
var ErrNotFound = errors.New("draft not found")

// Store keeps one user's drafts. Every method is scoped by the owning user id.
type Store interface {
	Create(ctx context.Context, userID string) (*models.AdDraft, error)
	Get(ctx context.Context, userID, id string) (*models.AdDraft, error)
	Save(ctx context.Context, d *models.AdDraft) error
	Delete(ctx context.Context, userID, id string) error
}

func newDraft(userID string, now time.Time) *models.AdDraft {
	return &models.AdDraft{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      1,
		Photos:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]models.AdDraft
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[string]models.AdDraft{}, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (*models.AdDraft, error) {
	d := newDraft(userID, s.now())
	s.mu.Lock()
	s.drafts[d.ID] = clone(*d)
	s.mu.Unlock()
	return d, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, id string) (*models.AdDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return nil, ErrNotFound
	}
	out := clone(d)
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, d *models.AdDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drafts[d.ID]
	if !ok || cur.UserID != d.UserID {
		return ErrNotFound
	}
	d.CreatedAt = cur.CreatedAt
	d.UpdatedAt = s.now()
	s.drafts[d.ID] = clone(*d)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

// clone copies the slices so callers never share backing arrays with the store.
func clone(d models.AdDraft) models.AdDraft {
	d.Path = append(models.SelectionPath(nil), d.Path...)
	d.Photos = append([]string{}, d.Photos...)
	return d
}
