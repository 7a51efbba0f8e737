package parser

// Tracker keeps the furthest-progress error among candidates.
// Zero value is an empty tracker.
type Tracker struct {
	best *Error
}

// Add replaces the best candidate with e only if e ends strictly further.
// nil is ignored.
func (t *Tracker) Add(e *Error) {
	if e == nil {
		return
	}

	if t.best == nil || e.Range.End() > t.best.Range.End() {
		t.best = e
	}
}

// Best returns the furthest candidate or nil.
func (t *Tracker) Best() *Error {
	return t.best
}

// Fail returns the error to report for a hard failure:
// the best candidate if it ends strictly further than hard, otherwise hard.
func (t *Tracker) Fail(hard *Error) *Error {
	if t.best != nil && t.best.Range.End() > hard.Range.End() {
		return t.best
	}

	return hard
}
