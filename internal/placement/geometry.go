// Package placement converts screen geometry into document coordinates and
// manages component paint order.
package placement

import (
	"sort"

	"slidedeck/internal/models"
)

// Scale is the ratio between on-screen pixels and document pixels.
type Scale float64

// ScaleFor returns the scale of a canvas rendered containerWidth wide.
// Non-positive widths fall back to 1.
func ScaleFor(containerWidth float64) Scale {
	if containerWidth <= 0 {
		return 1
	}
	return Scale(containerWidth / models.CanvasWidth)
}

// FitScale returns the largest scale at which the canvas fits inside a
// width x height box.
func FitScale(width, height float64) Scale {
	sw := width / models.CanvasWidth
	sh := height / models.CanvasHeight
	if sh < sw {
		sw = sh
	}
	if sw <= 0 {
		return 1
	}
	return Scale(sw)
}

// ToDocument converts a screen length to document space.
func (s Scale) ToDocument(v float64) float64 { return v / float64(s) }

// ToScreen converts a document length to screen space.
func (s Scale) ToScreen(v float64) float64 { return v * float64(s) }

// Rect is an on-screen bounding box.
type Rect struct {
	Left, Top, Width, Height float64
}

// DropPosition returns the document position of a width x height component
// centred on the point where item was released over canvas.
func DropPosition(item, canvas Rect, scale Scale, width, height float64) (x, y float64) {
	dropX := item.Left - canvas.Left
	dropY := item.Top - canvas.Top
	return scale.ToDocument(dropX) - width/2, scale.ToDocument(dropY) - height/2
}

// MovePosition applies a screen-space pointer delta to a document position.
func MovePosition(x, y, dx, dy float64, scale Scale) (float64, float64) {
	return x + scale.ToDocument(dx), y + scale.ToDocument(dy)
}

// NextZIndex returns the zIndex that paints above every given component.
func NextZIndex(components []models.CanvasComponent) int {
	max := 0
	for _, c := range components {
		if c.ZIndex > max {
			max = c.ZIndex
		}
	}
	return max + 1
}

// PaintOrder returns a copy of components sorted by zIndex, lowest first.
func PaintOrder(components []models.CanvasComponent) []models.CanvasComponent {
	out := make([]models.CanvasComponent, len(components))
	copy(out, components)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// BringToFront moves id to the top of the paint order and renumbers the
// slide to 1..N. ok is false when there is nothing to reorder.
func BringToFront(components []models.CanvasComponent, id string) ([]models.CanvasComponent, bool) {
	return restack(components, id, true)
}

// SendToBack moves id to the bottom of the paint order and renumbers the
// slide to 1..N.
func SendToBack(components []models.CanvasComponent, id string) ([]models.CanvasComponent, bool) {
	return restack(components, id, false)
}

func restack(components []models.CanvasComponent, id string, front bool) ([]models.CanvasComponent, bool) {
	if len(components) < 2 {
		return nil, false
	}
	ordered := PaintOrder(components)
	idx := -1
	for i := range ordered {
		if ordered[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	target := ordered[idx]
	rest := append(ordered[:idx:idx], ordered[idx+1:]...)
	if front {
		ordered = append(rest, target)
	} else {
		ordered = append([]models.CanvasComponent{target}, rest...)
	}
	for i := range ordered {
		ordered[i].ZIndex = i + 1
	}
	return ordered, true
}
