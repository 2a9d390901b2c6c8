package placement

import (
	"github.com/google/uuid"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
)

// Engine applies placement results to an editor, one history entry per
// user action.
type Engine struct {
	ed    *editor.Editor
	newID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator replaces uuid.NewString for new component ids.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates an engine bound to ed.
func NewEngine(ed *editor.Editor, opts ...EngineOption) *Engine {
	e := &Engine{ed: ed, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Drop creates a component from preset centred where it was released.
// A nil rect means the drop target could not be resolved and the drop is
// ignored, as is a drop with no active slide.
func (e *Engine) Drop(preset models.Preset, item, canvas *Rect, containerWidth float64) (models.CanvasComponent, bool) {
	if item == nil || canvas == nil {
		return models.CanvasComponent{}, false
	}
	slide := e.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return models.CanvasComponent{}, false
	}

	c := models.CreateComponent(e.newID(), *slide, preset.Type, preset.Properties)
	c.Properties.X, c.Properties.Y = DropPosition(*item, *canvas, ScaleFor(containerWidth),
		c.Properties.Width, c.Properties.Height)
	e.ed.AddComponent(c)
	return c, true
}

// Insert adds preset at the position its properties carry (or the type
// default), on top of the active slide.
func (e *Engine) Insert(preset models.Preset) (models.CanvasComponent, bool) {
	slide := e.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return models.CanvasComponent{}, false
	}
	c := models.CreateComponent(e.newID(), *slide, preset.Type, preset.Properties)
	e.ed.AddComponent(c)
	return c, true
}

// AddImage places an uploaded image at the standard spot.
func (e *Engine) AddImage(dataURI string) (models.CanvasComponent, bool) {
	return e.Insert(models.ImagePreset(dataURI))
}

// Paste inserts a copy of c with a fresh id, offset so it does not cover
// the original.
func (e *Engine) Paste(c models.CanvasComponent, offset float64) (models.CanvasComponent, bool) {
	slide := e.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return models.CanvasComponent{}, false
	}
	c.ID = e.newID()
	c.SlideID = slide.ID
	c.ZIndex = NextZIndex(slide.Components)
	c.Properties.X += offset
	c.Properties.Y += offset
	e.ed.AddComponent(c)
	return c, true
}

// Gesture accumulates pointer movement for one drag of one component.
type Gesture struct {
	ComponentID string
	OriginX     float64
	OriginY     float64
	DX          float64
	DY          float64
	Scale       Scale
}

// Move adds a screen-space pointer delta to the gesture.
func (g *Gesture) Move(dx, dy float64) {
	g.DX += dx
	g.DY += dy
}

// Position is where the component would land if released now.
func (g *Gesture) Position() (float64, float64) {
	return MovePosition(g.OriginX, g.OriginY, g.DX, g.DY, g.Scale)
}

// BeginDrag starts a gesture for a component on the active slide.
func (e *Engine) BeginDrag(componentID string, containerWidth float64) (*Gesture, bool) {
	slide := e.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return nil, false
	}
	c := slide.FindComponent(componentID)
	if c == nil {
		return nil, false
	}
	return &Gesture{
		ComponentID: componentID,
		OriginX:     c.Properties.X,
		OriginY:     c.Properties.Y,
		Scale:       ScaleFor(containerWidth),
	}, true
}

// EndDrag commits the gesture as a single move. A gesture that never moved
// commits nothing.
func (e *Engine) EndDrag(g *Gesture) {
	if g == nil || (g.DX == 0 && g.DY == 0) {
		return
	}
	x, y := g.Position()
	e.ed.UpdateComponentProperties(g.ComponentID, models.PropertiesPatch{X: &x, Y: &y})
}

// Resize sets a component's document size from screen dimensions.
func (e *Engine) Resize(componentID string, width, height, containerWidth float64) {
	scale := ScaleFor(containerWidth)
	w, h := scale.ToDocument(width), scale.ToDocument(height)
	if w < 1 || h < 1 {
		return
	}
	e.ed.UpdateComponentProperties(componentID, models.PropertiesPatch{Width: &w, Height: &h})
}

// Rotate sets a component's rotation in degrees.
func (e *Engine) Rotate(componentID string, degrees float64) {
	e.ed.UpdateComponentProperties(componentID, models.PropertiesPatch{Rotation: &degrees})
}

// BringToFront raises a component on the active slide above all others.
func (e *Engine) BringToFront(componentID string) {
	e.restack(componentID, BringToFront)
}

// SendToBack lowers a component on the active slide below all others.
func (e *Engine) SendToBack(componentID string) {
	e.restack(componentID, SendToBack)
}

func (e *Engine) restack(componentID string, fn func([]models.CanvasComponent, string) ([]models.CanvasComponent, bool)) {
	slide := e.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return
	}
	ordered, ok := fn(slide.Components, componentID)
	if !ok {
		return
	}
	e.ed.SetSlideComponents(slide.ID, ordered)
}

// ReorderSlides moves a slide to another slide's position.
func (e *Engine) ReorderSlides(activeID, overID string) {
	e.ed.ReorderSlides(activeID, overID)
}

// MoveSlide shifts the active slide by delta positions, clamped to the deck.
func (e *Engine) MoveSlide(delta int) {
	s := e.ed.Snapshot()
	if s.Presentation == nil {
		return
	}
	from := s.Presentation.SlideIndex(s.ActiveSlideID)
	if from < 0 {
		return
	}
	to := min(max(from+delta, 0), len(s.Presentation.Slides)-1)
	if to == from {
		return
	}
	e.ed.ReorderSlides(s.ActiveSlideID, s.Presentation.Slides[to].ID)
}

// Delete removes the selected component, or the active slide when nothing
// is selected.
func (e *Engine) Delete(selectedComponentID string) {
	if selectedComponentID != "" {
		e.ed.RemoveComponent(selectedComponentID)
		return
	}
	if id := e.ed.Snapshot().ActiveSlideID; id != "" {
		e.ed.RemoveSlide(id)
	}
}
