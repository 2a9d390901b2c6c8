package models

import (
	"sort"
	"unicode/utf8"
)

// Logical canvas size every component is positioned against.
const (
	CanvasWidth  = 1280
	CanvasHeight = 720
)

// MaxTitleLength is the longest title, in characters, the store accepts.
const MaxTitleLength = 255

// ComponentType tags the kind of a canvas component. Tags outside the known
// set are kept verbatim so documents written by newer clients round-trip.
type ComponentType string

const (
	ComponentText    ComponentType = "text"
	ComponentImage   ComponentType = "image"
	ComponentShape   ComponentType = "shape"
	ComponentFormula ComponentType = "formula"
)

// Known reports whether t is one of the built-in component types.
func (t ComponentType) Known() bool {
	switch t {
	case ComponentText, ComponentImage, ComponentShape, ComponentFormula:
		return true
	}
	return false
}

// ComponentProperties is the flat property record of a component.
// x/y/width/height are in document space (1280x720).
type ComponentProperties struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width" validate:"gte=0"`
	Height          float64 `json:"height" validate:"gte=0"`
	Content         string  `json:"content"`
	Rotation        float64 `json:"rotation"`
	FontSize        float64 `json:"fontSize" validate:"gte=0"`
	Color           string  `json:"color"`
	BackgroundColor string  `json:"backgroundColor"`
	IsBold          bool    `json:"isBold"`
	IsItalic        bool    `json:"isItalic"`
	IsUnderline     bool    `json:"isUnderline"`
}

// CanvasComponent is a single visual element on a slide
type CanvasComponent struct {
	ID            string              `json:"id" validate:"required"`
	SlideID       string              `json:"slideId"`
	ComponentType ComponentType       `json:"componentType" validate:"required"`
	ZIndex        int                 `json:"zIndex"`
	Properties    ComponentProperties `json:"properties"`
}

// Slide represents one page of a presentation
type Slide struct {
	ID             string            `json:"id" validate:"required"`
	PresentationID string            `json:"presentationId"`
	PageNumber     int               `json:"pageNumber" validate:"gte=1"`
	Components     []CanvasComponent `json:"components" validate:"dive"`
}

// Presentation is the document aggregate: a deck of ordered slides
type Presentation struct {
	ID       string  `json:"id" validate:"required"`
	Title    string  `json:"title" validate:"max=255"`
	UserID   string  `json:"userId"`
	LessonID string  `json:"lessonId"`
	Slides   []Slide `json:"slides" validate:"dive"`
}

// ClampTitle cuts title down to MaxTitleLength characters.
func ClampTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	return string([]rune(title)[:MaxTitleLength])
}

// Clone returns a copy of the slide that shares no memory with s.
// Components hold only value fields, so one copy per slide is a deep copy.
func (s Slide) Clone() Slide {
	out := s
	out.Components = make([]CanvasComponent, len(s.Components))
	copy(out.Components, s.Components)
	return out
}

// Clone returns a deep copy of the presentation.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	out := *p
	out.Slides = make([]Slide, len(p.Slides))
	for i := range p.Slides {
		out.Slides[i] = p.Slides[i].Clone()
	}
	return &out
}

// SortSlides orders slides by ascending pageNumber, keeping the relative
// order of equal page numbers.
func (p *Presentation) SortSlides() {
	sort.SliceStable(p.Slides, func(i, j int) bool {
		return p.Slides[i].PageNumber < p.Slides[j].PageNumber
	})
}

// Renumber rewrites pageNumber to 1..N following the current slice order.
func (p *Presentation) Renumber() {
	for i := range p.Slides {
		p.Slides[i].PageNumber = i + 1
	}
}

// SlideIndex returns the position of the slide with the given id, or -1.
func (p *Presentation) SlideIndex(id string) int {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSlide returns a pointer into p.Slides, or nil.
func (p *Presentation) FindSlide(id string) *Slide {
	if i := p.SlideIndex(id); i >= 0 {
		return &p.Slides[i]
	}
	return nil
}

// MaxPageNumber returns the highest pageNumber, 0 for an empty deck.
func (p *Presentation) MaxPageNumber() int {
	max := 0
	for _, s := range p.Slides {
		if s.PageNumber > max {
			max = s.PageNumber
		}
	}
	return max
}

// ComponentIndex returns the position of the component with the given id, or -1.
func (s *Slide) ComponentIndex(id string) int {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// FindComponent returns a pointer into s.Components, or nil.
func (s *Slide) FindComponent(id string) *CanvasComponent {
	if i := s.ComponentIndex(id); i >= 0 {
		return &s.Components[i]
	}
	return nil
}

// MaxZIndex returns the highest zIndex on the slide, 0 when it is empty.
func (s *Slide) MaxZIndex() int {
	max := 0
	for _, c := range s.Components {
		if c.ZIndex > max {
			max = c.ZIndex
		}
	}
	return max
}
