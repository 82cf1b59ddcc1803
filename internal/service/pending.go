package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pendingStore holds in-flight checkout contexts between the two scans.
// Pending checkouts are short-lived and node-local; losing them on restart
// just means the staff member scans the student again.
type pendingStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[uuid.UUID]*PendingCheckout
}

func newPendingStore(ttl time.Duration) *pendingStore {
	return &pendingStore{ttl: ttl, m: make(map[uuid.UUID]*PendingCheckout)}
}

func (s *pendingStore) put(userNetID, locationCode string, now time.Time) *PendingCheckout {
	p := &PendingCheckout{
		ID:           uuid.New(),
		UserNetID:    userNetID,
		LocationCode: locationCode,
		StartedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	s.mu.Lock()
	s.m[p.ID] = p
	s.mu.Unlock()
	return p
}

// get returns the pending checkout, or nil when absent or expired. The
// context stays in the store on failure so a bad container scan can be
// retried; it is dropped explicitly on commit or abandon.
func (s *pendingStore) get(id uuid.UUID, now time.Time) *PendingCheckout {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	if !ok {
		return nil
	}
	if p.Expired(now) {
		delete(s.m, id)
		return nil
	}
	return p
}

func (s *pendingStore) drop(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	delete(s.m, id)
	return ok
}

func (s *pendingStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.m {
		if p.Expired(now) {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}
