package view

import (
	"sync"
	"time"
)

// scheduler coalesces keyed deferred calls: scheduling a key cancels any
// pending call for the same key, so only the latest value wins.
type scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[string]*time.Timer)}
}

// schedule runs fn after delay, replacing any pending run for the same key.
// A zero delay runs fn synchronously.
func (s *scheduler) schedule(key string, delay time.Duration, fn func()) {
	if delay <= 0 {
		s.cancel(key)
		fn()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

// cancel drops any pending run for the key.
func (s *scheduler) cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// stop cancels every pending run.
func (s *scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}
