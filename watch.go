package gotdir

import "sync"

// Decision is the direction chosen for one input change.
type Decision struct {
	Text      string
	Direction Direction
	Switched  bool // Direction differs from the one active before the change
}

// DirectionWatcher applies the switcher to a stream of input-change events
// for one input, the way an editor hook would. Repeated events carrying the
// same text are not evaluated again. A switch sticks: later events start
// from the new direction. Safe for concurrent use.
type DirectionWatcher struct {
	switcher *Switcher

	mu      sync.Mutex
	current Direction
	last    string
	seen    bool
	evals   int
}

// NewDirectionWatcher creates a watcher starting at initial. A nil switcher
// never switches.
func NewDirectionWatcher(s *Switcher, initial Direction) *DirectionWatcher {
	return &DirectionWatcher{switcher: s, current: initial}
}

// Update handles one input-change event. The second result is false when the
// text is unchanged since the previous event and nothing was evaluated.
func (w *DirectionWatcher) Update(text string) (Decision, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seen && text == w.last {
		return Decision{Text: text, Direction: w.current}, false
	}
	w.seen, w.last = true, text

	d := Decision{Text: text, Direction: w.current}
	if w.switcher != nil {
		w.evals++
		d.Direction, d.Switched = w.switcher.Decide(w.current, text)
	}
	w.current = d.Direction
	return d, true
}

// Current returns the active direction.
func (w *DirectionWatcher) Current() Direction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reset sets the active direction, as when the user picks one by hand, and
// forgets the last input.
func (w *DirectionWatcher) Reset(d Direction) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = d
	w.seen, w.last = false, ""
}

// Evaluations returns how many events reached the switcher.
func (w *DirectionWatcher) Evaluations() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.evals
}
