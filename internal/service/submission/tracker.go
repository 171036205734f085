package submission

import "sync"

// Tracker holds the dismissible submission status shown next to a form.
// Transitions: none to pending on submit start, pending to success or
// failure on resolution; a terminal status resets to none only on explicit
// dismissal or a fresh submit.
type Tracker struct {
	mu     sync.Mutex
	status Status
}

func NewTracker() *Tracker {
	return &Tracker{status: StatusNone}
}

// Begin marks a fresh submit, replacing any previous terminal status.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusPending
}

// Resolve records the outcome of the in-flight submission. Outcomes other
// than success or failure are ignored, as is a resolve without a pending
// submission.
func (t *Tracker) Resolve(status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusPending {
		return
	}
	if status != StatusSuccess && status != StatusFailure {
		return
	}
	t.status = status
}

// Dismiss clears a terminal status. A pending submission stays pending.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusSuccess || t.status == StatusFailure {
		t.status = StatusNone
	}
}

// Current returns the visible status.
func (t *Tracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
