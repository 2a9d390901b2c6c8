package editor

import "slidedeck/internal/models"

// SaveStatus tracks the last persistence attempt for the open document.
type SaveStatus string

const (
	StatusIdle      SaveStatus = "idle"
	StatusSaving    SaveStatus = "saving"
	StatusSucceeded SaveStatus = "succeeded"
	StatusFailed    SaveStatus = "failed"
)

// PresentState is one history snapshot. An empty ActiveSlideID means no
// slide is focused.
type PresentState struct {
	Presentation  *models.Presentation
	ActiveSlideID string
	SaveStatus    SaveStatus
}

// Clone returns a deep copy.
func (s PresentState) Clone() PresentState {
	s.Presentation = s.Presentation.Clone()
	return s
}

// ActiveSlide returns a pointer to the focused slide inside s, or nil.
func (s PresentState) ActiveSlide() *models.Slide {
	if s.Presentation == nil || s.ActiveSlideID == "" {
		return nil
	}
	return s.Presentation.FindSlide(s.ActiveSlideID)
}

// Op names the operation behind a change notification.
type Op string

const (
	OpLoad                      Op = "load"
	OpSetActiveSlide            Op = "setActiveSlide"
	OpSaveStatus                Op = "saveStatus"
	OpCommit                    Op = "commit"
	OpUpdateTitle               Op = "updateTitle"
	OpAddSlide                  Op = "addSlide"
	OpRemoveSlide               Op = "removeSlide"
	OpReorderSlides             Op = "reorderSlides"
	OpSetSlideComponents        Op = "setSlideComponents"
	OpAddComponent              Op = "addComponent"
	OpUpdateComponentProperties Op = "updateComponentProperties"
	OpRemoveComponent           Op = "removeComponent"
	OpUndo                      Op = "undo"
	OpRedo                      Op = "redo"
)

// Watched reports whether the op changes the document through history, and
// therefore needs to be persisted.
func (o Op) Watched() bool {
	switch o {
	case OpLoad, OpSetActiveSlide, OpSaveStatus:
		return false
	}
	return true
}

// Change is delivered to subscribers after every state transition.
type Change struct {
	Op    Op
	State PresentState
}
