package service

import (
	"context"
	"sync"
	"time"
)

type storedWizard struct {
	session  *wizardSession
	lastSeen time.Time
}

// wizardStore keeps open wizard sessions. Sessions idle for longer than ttl are evicted on access
// or by the sweeper, and evicted sessions are closed so any in-flight submission is cancelled.
type wizardStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]*storedWizard
}

func newWizardStore(ttl time.Duration) *wizardStore {
	return &wizardStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*storedWizard),
	}
}

func (s *wizardStore) Save(session *wizardSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.id] = &storedWizard{session: session, lastSeen: s.now()}
}

// Get returns the session and refreshes its idle timer.
func (s *wizardStore) Get(id string) (*wizardSession, bool) {
	s.mu.Lock()
	entry, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.items, id)
		s.mu.Unlock()
		entry.session.close()
		return nil, false
	}
	entry.lastSeen = now
	s.mu.Unlock()
	return entry.session, true
}

// Delete removes the session and returns it, if present.
func (s *wizardStore) Delete(id string) (*wizardSession, bool) {
	s.mu.Lock()
	entry, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return entry.session, true
}

func (s *wizardStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *wizardStore) Sweep() int {
	now := s.now()
	var evicted []*wizardSession

	s.mu.Lock()
	for id, entry := range s.items {
		if s.expired(entry, now) {
			delete(s.items, id)
			evicted = append(evicted, entry.session)
		}
	}
	s.mu.Unlock()

	for _, session := range evicted {
		session.close()
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx is done.
func (s *wizardStore) Run(ctx context.Context, interval time.Duration, onSweep func(evicted, remaining int)) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := s.Sweep()
			if onSweep != nil {
				onSweep(evicted, s.Len())
			}
		}
	}
}

func (s *wizardStore) expired(entry *storedWizard, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
