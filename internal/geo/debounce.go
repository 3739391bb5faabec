package geo

import (
	"sync/atomic"
	"time"
)

// SearchDelay is the quiet period before search-as-you-type fires
const SearchDelay = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers. Each Trigger returns a ticket; after
// waiting Delay the caller asks Ready(ticket) and only the latest ticket wins.
// It owns no timers, so the caller's event loop does the waiting.
type Debouncer struct {
	delay time.Duration
	gen   atomic.Uint64
}

// NewDebouncer creates a debouncer with the given quiet period
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = SearchDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger records an event and returns its ticket
func (d *Debouncer) Trigger() uint64 {
	return d.gen.Add(1)
}

// Ready reports whether ticket is still the most recent trigger
func (d *Debouncer) Ready(ticket uint64) bool {
	return ticket != 0 && d.gen.Load() == ticket
}

// Cancel invalidates every outstanding ticket
func (d *Debouncer) Cancel() {
	d.gen.Add(1)
}

// Delay returns the quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
