// Package render projects canvas components onto a drawing surface.
package render

import (
	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

// Style is the screen-space envelope a component is drawn in.
type Style struct {
	Left, Top     float64
	Width, Height float64
	Rotation      float64
	FontSize      float64
	Color         string
	Background    string
	Bold          bool
	Italic        bool
	Underline     bool
	Content       string
}

// StyleFor maps c to screen space at scale. Components with an unknown type
// have no visual and report false.
func StyleFor(c models.CanvasComponent, scale placement.Scale) (Style, bool) {
	if !c.ComponentType.Known() {
		return Style{}, false
	}
	p := c.Properties
	return Style{
		Left:       scale.ToScreen(p.X),
		Top:        scale.ToScreen(p.Y),
		Width:      scale.ToScreen(p.Width),
		Height:     scale.ToScreen(p.Height),
		Rotation:   p.Rotation,
		FontSize:   scale.ToScreen(p.FontSize),
		Color:      p.Color,
		Background: p.BackgroundColor,
		Bold:       p.IsBold,
		Italic:     p.IsItalic,
		Underline:  p.IsUnderline,
		Content:    p.Content,
	}, true
}
