// Package filter holds the active query predicate of a session.
package filter

import (
	"sync"

	"memoclient/domain"
)

// Duration is a half-open [From, To) time range in unix seconds
type Duration struct {
	From int64
	To   int64
}

// State is a snapshot of the active filter. Zero values mean "not set".
type State struct {
	Tag        string
	Text       string
	Duration   *Duration
	Visibility domain.Visibility
}

// IsEmpty reports whether no filter field is set
func (s State) IsEmpty() bool {
	return s.Tag == "" && s.Text == "" && s.Duration == nil && s.Visibility == ""
}

// Filter is the shared mutable filter state of one session. Reads always
// reflect the latest write.
type Filter struct {
	mu    sync.RWMutex
	state State
}

// New creates an empty filter
func New() *Filter {
	return &Filter{}
}

// State returns a snapshot of the current filter
func (f *Filter) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	state := f.state
	if f.state.Duration != nil {
		duration := *f.state.Duration
		state.Duration = &duration
	}
	return state
}

// SetTag sets the tag filter; an empty tag clears it
func (f *Filter) SetTag(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Tag = tag
}

// SetText sets the free-text filter; an empty text clears it
func (f *Filter) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Text = text
}

// SetDuration sets the time range filter. A range without from < to is
// normalized to no duration at all rather than rejected.
func (f *Filter) SetDuration(from, to int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if from > 0 && to > 0 && from < to {
		f.state.Duration = &Duration{From: from, To: to}
		return
	}
	f.state.Duration = nil
}

// SetVisibility sets the visibility filter; an empty value clears it
func (f *Filter) SetVisibility(visibility domain.Visibility) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Visibility = visibility
}

// Clear resets every filter field
func (f *Filter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = State{}
}
