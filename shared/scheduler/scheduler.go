package scheduler

import (
	"lockngo/shared/clock"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs fire-once tasks keyed by an id. Scheduling a key again replaces
// the pending task for that key.
type Scheduler interface {
	Schedule(key string, delay time.Duration, task func())
	Cancel(key string) bool
	Pending(key string) bool
	Stop()
}

type entry struct {
	timer clock.Timer
	gen   uint64
}

type schedulerImpl struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]entry
	gen     uint64
	stopped bool
}

func New(clk clock.Clock) Scheduler {
	return &schedulerImpl{
		clock:   clk,
		entries: map[string]entry{},
	}
}

func (s *schedulerImpl) Schedule(key string, delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		log.Warn().Str("key", key).Msg("scheduler stopped, dropping task")

		return
	}

	if prev, ok := s.entries[key]; ok {
		prev.timer.Stop()
	}

	s.gen++
	gen := s.gen

	timer := s.clock.AfterFunc(delay, func() {
		if !s.release(key, gen) {
			return
		}

		task()
	})

	s.entries[key] = entry{timer: timer, gen: gen}
}

// release drops the entry if it still belongs to gen and reports whether the task may run.
func (s *schedulerImpl) release(key string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[key]
	if !ok || current.gen != gen {
		return false
	}

	delete(s.entries, key)

	return true
}

func (s *schedulerImpl) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[key]
	if !ok {
		return false
	}

	delete(s.entries, key)

	return current.timer.Stop()
}

func (s *schedulerImpl) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]

	return ok
}

func (s *schedulerImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, key)
	}

	s.stopped = true

	log.Info().Msg("Scheduler stopped")
}
