package game

import (
	"sync"
	"time"
)

// Scheduler drives an Engine on a fixed period. Each tick runs to completion
// before the next is scheduled; Stop cancels the ticker deterministically and
// waits for the loop to exit. It replaces the free-floating interval the UI
// used to own.
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.engine.Tick()
		}
	}
}

// Stop is idempotent and safe to call before Start; once it returns after a
// Start, no further ticks run and the live set is frozen.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.startOnce.Do(func() {
		close(s.stopped)
	})
	<-s.stopped
}
