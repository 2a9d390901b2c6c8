package editor

import (
	"sync"

	"slidedeck/internal/models"
)

// DefaultHistoryLimit bounds the undo stack.
const DefaultHistoryLimit = 30

// Listener receives a snapshot after each change. It is called outside the
// editor lock, so it may call back into the editor.
type Listener func(Change)

// Editor owns the open document and its linear undo/redo history.
// Every method is safe for concurrent use; operations are applied one at a
// time and readers only ever see copies.
type Editor struct {
	mu      sync.Mutex
	past    []PresentState
	present PresentState
	future  []PresentState
	limit   int

	listeners map[int]Listener
	nextID    int
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistoryLimit overrides the maximum undo depth.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// New creates an editor with no document loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		present:   PresentState{SaveStatus: StatusIdle},
		limit:     DefaultHistoryLimit,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (e *Editor) Subscribe(fn Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() PresentState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.present.Clone()
}

// CanUndo reports whether there is anything to undo.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.past) > 0
}

// CanRedo reports whether there is anything to redo.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.future) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (e *Editor) Depth() (past, future int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.past), len(e.future)
}

// LoadPresentation replaces the open document and erases all history.
func (e *Editor) LoadPresentation(p models.Presentation) {
	e.mu.Lock()
	doc := p.Clone()
	doc.SortSlides()
	active := ""
	if len(doc.Slides) > 0 {
		active = doc.Slides[0].ID
	}
	e.present = PresentState{
		Presentation:  doc,
		ActiveSlideID: active,
		SaveStatus:    StatusSucceeded,
	}
	e.past = nil
	e.future = nil
	e.unlockAndNotify(OpLoad)
}

// SetActiveSlide moves focus to another slide. It is not recorded in
// history. Unknown ids are ignored.
func (e *Editor) SetActiveSlide(id string) {
	e.mu.Lock()
	if e.present.Presentation == nil || e.present.Presentation.FindSlide(id) == nil ||
		e.present.ActiveSlideID == id {
		e.mu.Unlock()
		return
	}
	e.present.ActiveSlideID = id
	e.unlockAndNotify(OpSetActiveSlide)
}

// SetSaveStatus records the outcome of a save without touching history.
func (e *Editor) SetSaveStatus(status SaveStatus) {
	e.mu.Lock()
	if e.present.SaveStatus == status {
		e.mu.Unlock()
		return
	}
	e.present.SaveStatus = status
	e.unlockAndNotify(OpSaveStatus)
}

// Commit snapshots the current state into history, clears the redo stack
// and applies mutator to the present state.
func (e *Editor) Commit(mutator func(*PresentState)) {
	e.apply(OpCommit, func(s *PresentState) bool {
		mutator(s)
		return true
	})
}

// Undo steps back one entry. It does nothing when there is no history.
func (e *Editor) Undo() {
	e.mu.Lock()
	if len(e.past) == 0 {
		e.mu.Unlock()
		return
	}
	last := len(e.past) - 1
	e.future = append([]PresentState{e.present}, e.future...)
	e.present = e.past[last]
	e.past[last] = PresentState{}
	e.past = e.past[:last]
	e.unlockAndNotify(OpUndo)
}

// Redo re-applies the most recently undone entry.
func (e *Editor) Redo() {
	e.mu.Lock()
	if len(e.future) == 0 {
		e.mu.Unlock()
		return
	}
	e.pushPast(e.present)
	e.present = e.future[0]
	e.future = e.future[1:]
	e.unlockAndNotify(OpRedo)
}

// apply runs fn on a copy of the present state. When fn reports a change
// the old present moves onto the undo stack; otherwise nothing is recorded.
func (e *Editor) apply(op Op, fn func(*PresentState) bool) bool {
	e.mu.Lock()
	next := e.present.Clone()
	if !fn(&next) {
		e.mu.Unlock()
		return false
	}
	e.pushPast(e.present)
	e.present = next
	e.future = nil
	e.unlockAndNotify(op)
	return true
}

// pushPast must be called with the lock held.
func (e *Editor) pushPast(s PresentState) {
	e.past = append(e.past, s)
	if over := len(e.past) - e.limit; over > 0 {
		copy(e.past, e.past[over:])
		for i := len(e.past) - over; i < len(e.past); i++ {
			e.past[i] = PresentState{}
		}
		e.past = e.past[:len(e.past)-over]
	}
}

// unlockAndNotify releases the lock taken by the caller and then fans the
// new state out to listeners.
func (e *Editor) unlockAndNotify(op Op) {
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	var state PresentState
	if len(listeners) > 0 {
		state = e.present.Clone()
	}
	e.mu.Unlock()

	for _, l := range listeners {
		l(Change{Op: op, State: state.Clone()})
	}
}
