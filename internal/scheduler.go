package internal

type Scheduler struct {
	// incremented each time the scheduler is flushed
	ticks uint64

	scheduled bool
	running   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Run executes fn as one tick, unless a tick is already running or nothing
// was scheduled. Work scheduled while running is picked up by the running tick.
// It reports whether fn ran.
func (s *Scheduler) Run(fn func()) bool {
	if s.running || !s.scheduled {
		return false
	}

	s.scheduled = false
	s.running = true
	defer func() {
		// writes made while running were picked up by fn
		s.scheduled = false
		s.running = false
		s.ticks++
	}()

	fn()
	return true
}

func (s *Scheduler) Schedule() {
	s.scheduled = true
}

func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}
