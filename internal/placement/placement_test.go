package placement

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
)

func TestScale(t *testing.T) {
	s := ScaleFor(640)
	assert.Equal(t, Scale(0.5), s)
	assert.Equal(t, 200.0, s.ToDocument(100))
	assert.Equal(t, 50.0, s.ToScreen(100))
	assert.Equal(t, Scale(1), ScaleFor(0))
	assert.Equal(t, Scale(0.1), FitScale(128, 72))
	assert.Equal(t, Scale(0.1), FitScale(500, 72))
}

func TestDropPosition(t *testing.T) {
	tests := []struct {
		name           string
		containerWidth float64
		item, canvas   Rect
		w, h           float64
	}{
		{"full size", 1280, Rect{Left: 700, Top: 400}, Rect{Left: 100, Top: 50}, 300, 100},
		{"half size", 640, Rect{Left: 300, Top: 250}, Rect{Left: 20, Top: 10}, 150, 150},
		{"odd width", 1000, Rect{Left: 333, Top: 111}, Rect{Left: 33, Top: 11}, 80, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := DropPosition(tt.item, tt.canvas, ScaleFor(tt.containerWidth), tt.w, tt.h)
			scale := tt.containerWidth / 1280
			assert.InDelta(t, (tt.item.Left-tt.canvas.Left)/scale-tt.w/2, x, 1e-9)
			assert.InDelta(t, (tt.item.Top-tt.canvas.Top)/scale-tt.h/2, y, 1e-9)
		})
	}

	x, y := DropPosition(Rect{Left: 420, Top: 230}, Rect{Left: 100, Top: 50}, ScaleFor(640), 300, 100)
	assert.Equal(t, 490.0, x)
	assert.Equal(t, 310.0, y)
}

func TestMovePosition(t *testing.T) {
	x, y := MovePosition(100, 100, 10, -20, ScaleFor(640))
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 60.0, y)
}

func comps(z ...int) []models.CanvasComponent {
	var out []models.CanvasComponent
	for i, zi := range z {
		out = append(out, models.CanvasComponent{ID: fmt.Sprintf("c%d", i+1), ZIndex: zi})
	}
	return out
}

func order(cs []models.CanvasComponent) (ids []string, z []int) {
	for _, c := range cs {
		ids = append(ids, c.ID)
		z = append(z, c.ZIndex)
	}
	return ids, z
}

func TestBringToFrontAndSendToBack(t *testing.T) {
	in := comps(5, 2, 9)

	out, ok := BringToFront(in, "c2")
	require.True(t, ok)
	ids, z := order(out)
	assert.Equal(t, []string{"c1", "c3", "c2"}, ids)
	assert.Equal(t, []int{1, 2, 3}, z)

	out, ok = SendToBack(in, "c3")
	require.True(t, ok)
	ids, z = order(out)
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids)
	assert.Equal(t, []int{1, 2, 3}, z)

	// input untouched
	_, z = order(in)
	assert.Equal(t, []int{5, 2, 9}, z)
}

func TestRestackNoops(t *testing.T) {
	_, ok := BringToFront(comps(1), "c1")
	assert.False(t, ok)
	_, ok = SendToBack(nil, "c1")
	assert.False(t, ok)
	_, ok = BringToFront(comps(1, 2), "missing")
	assert.False(t, ok)
}

func TestNextZIndex(t *testing.T) {
	assert.Equal(t, 1, NextZIndex(nil))
	assert.Equal(t, 8, NextZIndex(comps(3, 7, 1)))
}

func newEngine(t *testing.T) (*editor.Editor, *Engine) {
	t.Helper()
	ed := editor.New()
	ed.LoadPresentation(models.NewPresentation("p1", "s1", "l1", "u1", "Deck"))
	n := 0
	eng := NewEngine(ed, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	return ed, eng
}

func TestEngineDrop(t *testing.T) {
	ed, eng := newEngine(t)
	preset, ok := models.FindPreset("text-title")
	require.True(t, ok)

	c, ok := eng.Drop(preset, &Rect{Left: 420, Top: 230}, &Rect{Left: 100, Top: 50}, 640)
	require.True(t, ok)
	assert.Equal(t, "id1", c.ID)
	assert.Equal(t, 1, c.ZIndex)
	assert.Equal(t, 440.0, c.Properties.X)
	assert.Equal(t, 325.0, c.Properties.Y)

	c2, ok := eng.Drop(preset, &Rect{Left: 420, Top: 230}, &Rect{Left: 100, Top: 50}, 640)
	require.True(t, ok)
	assert.Equal(t, 2, c2.ZIndex)
	assert.Len(t, ed.Snapshot().ActiveSlide().Components, 2)
}

func TestEngineDropWithoutTargetIsIgnored(t *testing.T) {
	ed, eng := newEngine(t)
	_, ok := eng.Drop(models.TextPresets()[0], &Rect{}, nil, 640)
	assert.False(t, ok)
	assert.False(t, ed.CanUndo())
}

func TestDragCommitsOncePerGesture(t *testing.T) {
	ed, eng := newEngine(t)
	c, _ := eng.Insert(models.ShapePresets()[0])

	g, ok := eng.BeginDrag(c.ID, 640)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		g.Move(2, 1)
	}
	eng.EndDrag(g)

	past, _ := ed.Depth()
	assert.Equal(t, 2, past)
	moved := ed.Snapshot().ActiveSlide().FindComponent(c.ID)
	assert.Equal(t, c.Properties.X+40, moved.Properties.X)
	assert.Equal(t, c.Properties.Y+20, moved.Properties.Y)

	ed.Undo()
	back := ed.Snapshot().ActiveSlide().FindComponent(c.ID)
	assert.Equal(t, c.Properties.X, back.Properties.X)
}

func TestStillGestureCommitsNothing(t *testing.T) {
	ed, eng := newEngine(t)
	c, _ := eng.Insert(models.ShapePresets()[0])
	g, _ := eng.BeginDrag(c.ID, 1280)
	eng.EndDrag(g)
	eng.EndDrag(nil)

	past, _ := ed.Depth()
	assert.Equal(t, 1, past)
}

func TestEngineZOrder(t *testing.T) {
	ed, eng := newEngine(t)
	a, _ := eng.Insert(models.ShapePresets()[0])
	b, _ := eng.Insert(models.ShapePresets()[1])
	c, _ := eng.Insert(models.ShapePresets()[2])

	eng.SendToBack(c.ID)
	ids, z := order(PaintOrder(ed.Snapshot().ActiveSlide().Components))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, ids)
	assert.Equal(t, []int{1, 2, 3}, z)

	eng.BringToFront(c.ID)
	ids, z = order(PaintOrder(ed.Snapshot().ActiveSlide().Components))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids)
	assert.Equal(t, []int{1, 2, 3}, z)
}

func TestEngineZOrderSingleComponentIsNoop(t *testing.T) {
	ed, eng := newEngine(t)
	a, _ := eng.Insert(models.ShapePresets()[0])
	eng.BringToFront(a.ID)
	past, _ := ed.Depth()
	assert.Equal(t, 1, past)
}

func TestEngineResizeRotate(t *testing.T) {
	ed, eng := newEngine(t)
	a, _ := eng.Insert(models.ShapePresets()[0])

	eng.Resize(a.ID, 100, 50, 640)
	eng.Rotate(a.ID, 45)
	eng.Resize(a.ID, 0, 50, 640)

	got := ed.Snapshot().ActiveSlide().FindComponent(a.ID)
	assert.Equal(t, 200.0, got.Properties.Width)
	assert.Equal(t, 100.0, got.Properties.Height)
	assert.Equal(t, 45.0, got.Properties.Rotation)
}

func TestEngineImageAndPaste(t *testing.T) {
	ed, eng := newEngine(t)
	img, ok := eng.AddImage("data:image/png;base64,AAAA")
	require.True(t, ok)
	assert.Equal(t, models.ComponentImage, img.ComponentType)
	assert.Equal(t, 100.0, img.Properties.X)
	assert.Equal(t, 300.0, img.Properties.Width)

	dup, ok := eng.Paste(img, 20)
	require.True(t, ok)
	assert.NotEqual(t, img.ID, dup.ID)
	assert.Equal(t, 2, dup.ZIndex)
	assert.Equal(t, 120.0, dup.Properties.X)
	assert.Len(t, ed.Snapshot().ActiveSlide().Components, 2)
}

func TestEngineMoveSlideAndDelete(t *testing.T) {
	ed, eng := newEngine(t)
	ed.AddSlide("s2")
	ed.AddSlide("s3")

	eng.MoveSlide(-5)
	s := ed.Snapshot()
	assert.Equal(t, "s3", s.Presentation.Slides[0].ID)
	assert.Equal(t, 1, s.Presentation.Slides[0].PageNumber)

	a, _ := eng.Insert(models.ShapePresets()[0])
	eng.Delete(a.ID)
	assert.Empty(t, ed.Snapshot().ActiveSlide().Components)

	eng.Delete("")
	s = ed.Snapshot()
	assert.Len(t, s.Presentation.Slides, 2)
	assert.Equal(t, []int{1, 2}, []int{s.Presentation.Slides[0].PageNumber, s.Presentation.Slides[1].PageNumber})
}
