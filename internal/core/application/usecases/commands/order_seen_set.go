package commands

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// seenSetClearThreshold bounds seen-set growth between reconciliations.
const seenSetClearThreshold = 4096

// orderSeenSet tracks order ids a sweep already acted on, so reminders and
// alerts fire once per order. State is advisory and in-process only: after
// a restart a reminder may fire a second time, which is acceptable.
type orderSeenSet struct {
	mu   sync.Mutex
	seen map[kernel.UUID]struct{}
}

func newOrderSeenSet() *orderSeenSet {
	return &orderSeenSet{seen: make(map[kernel.UUID]struct{})}
}

// markIfUnseen records the id and reports whether it was new.
func (s *orderSeenSet) markIfUnseen(id kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// forget drops one id, re-arming its one-time action.
func (s *orderSeenSet) forget(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
}

// retainOnly drops every entry not in the given set: orders that left the
// tracked state no longer need dedup. When the set outgrows the threshold
// it is cleared outright instead of filtered.
func (s *orderSeenSet) retainOnly(ids []kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.seen) > seenSetClearThreshold {
		s.seen = make(map[kernel.UUID]struct{})
		return
	}

	current := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		current[id] = struct{}{}
	}
	for id := range s.seen {
		if _, ok := current[id]; !ok {
			delete(s.seen, id)
		}
	}
}

func (s *orderSeenSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
