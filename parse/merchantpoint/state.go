package merchantpoint

import "sync"

// CrawlState counts emitted records against a maximum for one run.
// A maximum of zero or less means no limit.
type CrawlState struct {
	mu    sync.Mutex
	count int
	max   int
}

func NewCrawlState(max int) *CrawlState {
	return &CrawlState{max: max}
}

// Reached reports whether no further records may be emitted.
func (s *CrawlState) Reached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max > 0 && s.count >= s.max
}

// TryEmit reserves one slot and returns the new count. It fails once the
// maximum is reached, so the count never exceeds it.
func (s *CrawlState) TryEmit() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && s.count >= s.max {
		return s.count, false
	}
	s.count++
	return s.count, true
}

func (s *CrawlState) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *CrawlState) Max() int {
	return s.max
}
