// Package watch reports changes to program files so they can be rerun
package watch

import (
	"sync"
	"time"
)

// DebounceDelay is how long a file must stay quiet before onChange fires
var DebounceDelay = 500 * time.Millisecond

// debouncer collapses bursts of events per path into one callback
type debouncer struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	onChange func(string)
}

func newDebouncer(onChange func(string)) *debouncer {
	return &debouncer{timers: make(map[string]*time.Timer), onChange: onChange}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.timers[path]; exists {
		timer.Stop()
	}

	d.timers[path] = time.AfterFunc(DebounceDelay, func() {
		d.onChange(path)
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
