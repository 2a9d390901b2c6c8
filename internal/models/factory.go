package models

// PropertiesPatch is a partial ComponentProperties; nil fields are left as-is.
type PropertiesPatch struct {
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	Content         *string  `json:"content,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	Color           *string  `json:"color,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	IsBold          *bool    `json:"isBold,omitempty"`
	IsItalic        *bool    `json:"isItalic,omitempty"`
	IsUnderline     *bool    `json:"isUnderline,omitempty"`
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Apply shallow-merges the patch over p and returns the result.
func (pp PropertiesPatch) Apply(p ComponentProperties) ComponentProperties {
	if pp.X != nil {
		p.X = *pp.X
	}
	if pp.Y != nil {
		p.Y = *pp.Y
	}
	if pp.Width != nil {
		p.Width = *pp.Width
	}
	if pp.Height != nil {
		p.Height = *pp.Height
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.Rotation != nil {
		p.Rotation = *pp.Rotation
	}
	if pp.FontSize != nil {
		p.FontSize = *pp.FontSize
	}
	if pp.Color != nil {
		p.Color = *pp.Color
	}
	if pp.BackgroundColor != nil {
		p.BackgroundColor = *pp.BackgroundColor
	}
	if pp.IsBold != nil {
		p.IsBold = *pp.IsBold
	}
	if pp.IsItalic != nil {
		p.IsItalic = *pp.IsItalic
	}
	if pp.IsUnderline != nil {
		p.IsUnderline = *pp.IsUnderline
	}
	return p
}

// IsEmpty reports whether the patch sets no field.
func (pp PropertiesPatch) IsEmpty() bool {
	return pp == PropertiesPatch{}
}

// DefaultProperties returns the starting property set for a component type.
func DefaultProperties(t ComponentType) ComponentProperties {
	p := ComponentProperties{
		Rotation:        0,
		FontSize:        16,
		Color:           "#000000",
		BackgroundColor: "transparent",
	}
	switch t {
	case ComponentText:
		p.Width, p.Height = 300, 100
		p.Content = "Text"
	case ComponentImage:
		p.Width, p.Height = 300, 200
	case ComponentShape:
		p.Width, p.Height = 150, 100
	case ComponentFormula:
		p.Width, p.Height = 100, 60
		p.FontSize = 24
	default:
		p.Width, p.Height = 100, 100
	}
	return p
}

// CreateSlide builds an empty slide at the given page.
func CreateSlide(id, presentationID string, pageNumber int) Slide {
	return Slide{
		ID:             id,
		PresentationID: presentationID,
		PageNumber:     pageNumber,
		Components:     []CanvasComponent{},
	}
}

// CreateComponent builds a component for slide, stacked above everything
// already on it, with initial merged over the type defaults.
func CreateComponent(id string, slide Slide, t ComponentType, initial PropertiesPatch) CanvasComponent {
	return CanvasComponent{
		ID:            id,
		SlideID:       slide.ID,
		ComponentType: t,
		ZIndex:        slide.MaxZIndex() + 1,
		Properties:    initial.Apply(DefaultProperties(t)),
	}
}

// NewPresentation builds a deck with a single empty slide.
func NewPresentation(id, slideID, lessonID, userID, title string) Presentation {
	return Presentation{
		ID:       id,
		Title:    title,
		UserID:   userID,
		LessonID: lessonID,
		Slides:   []Slide{CreateSlide(slideID, id, 1)},
	}
}
