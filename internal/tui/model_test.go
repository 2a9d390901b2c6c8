package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

type fakeLoader struct {
	p   models.Presentation
	err error
}

func (l *fakeLoader) Get(ctx context.Context, id string) (models.Presentation, error) {
	return l.p, l.err
}

type fakeSaver struct {
	flushes, retries int
	err              error
}

func (s *fakeSaver) Flush(ctx context.Context) error {
	s.flushes++
	return s.err
}

func (s *fakeSaver) Retry() { s.retries++ }

type memClipboard struct{ text string }

func (c *memClipboard) ReadAll() (string, error)   { return c.text, nil }
func (c *memClipboard) WriteAll(text string) error { c.text = text; return nil }

type harness struct {
	m      Model
	ed     *editor.Editor
	saver  *fakeSaver
	clip   *memClipboard
	loader *fakeLoader
}

func deck(n int) models.Presentation {
	p := models.Presentation{ID: "p1", Title: "Deck"}
	for i := 1; i <= n; i++ {
		p.Slides = append(p.Slides, models.CreateSlide(fmt.Sprintf("s%d", i), "p1", i))
	}
	return p
}

// newHarness builds a model whose canvas is 80 cells (640 screen px) wide,
// i.e. scale 0.5.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ed := editor.New()
	n := 0
	gen := func() string { n++; return fmt.Sprintf("id%d", n) }
	h := &harness{
		ed:     ed,
		saver:  &fakeSaver{},
		clip:   &memClipboard{},
		loader: &fakeLoader{p: deck(1)},
	}
	h.m = New(Options{
		PresentationID: "p1",
		Editor:         ed,
		Engine:         placement.NewEngine(ed, placement.WithIDGenerator(gen)),
		Loader:         h.loader,
		Saver:          h.saver,
		Clipboard:      h.clip,
		NewID:          gen,
	})
	t.Cleanup(h.m.Close)
	h.send(tea.WindowSizeMsg{Width: 98, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) load(p models.Presentation) {
	h.send(loadedMsg{id: "p1", presentation: p})
}

func (h *harness) keys(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	named := map[string]tea.KeyType{
		"enter": tea.KeyEnter, "esc": tea.KeyEsc, "tab": tea.KeyTab, "shift+tab": tea.KeyShiftTab,
		"up": tea.KeyUp, "down": tea.KeyDown, "left": tea.KeyLeft, "right": tea.KeyRight,
		"shift+right": tea.KeyShiftRight, "backspace": tea.KeyBackspace, "delete": tea.KeyDelete,
		"ctrl+z": tea.KeyCtrlZ, "ctrl+y": tea.KeyCtrlY, "ctrl+s": tea.KeyCtrlS, "ctrl+c": tea.KeyCtrlC,
		"space": tea.KeySpace,
	}
	if t, ok := named[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) components() []models.CanvasComponent {
	return h.ed.Snapshot().ActiveSlide().Components
}

func TestInitLoadsRequestedPresentation(t *testing.T) {
	h := newHarness(t)
	cmd := h.m.load()
	msg := cmd()
	require.IsType(t, loadedMsg{}, msg)
	assert.Equal(t, "p1", msg.(loadedMsg).id)

	h.send(msg)
	assert.Equal(t, modeEdit, h.m.mode)
	assert.Equal(t, "s1", h.ed.Snapshot().ActiveSlideID)
	assert.Contains(t, h.m.View(), "All changes saved")
}

func TestLoadFailureShowsErrorScreen(t *testing.T) {
	h := newHarness(t)
	h.send(loadedMsg{id: "p1", err: errors.New("boom")})

	assert.Equal(t, modeError, h.m.mode)
	assert.Nil(t, h.ed.Snapshot().Presentation)
	assert.Contains(t, h.m.View(), "Could not load presentation")

	cmd := h.send(keyMsg("r"))
	assert.Equal(t, modeLoading, h.m.mode)
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, modeEdit, h.m.mode)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.send(loadedMsg{id: "other", presentation: deck(2)})
	assert.Equal(t, modeLoading, h.m.mode)
	assert.Nil(t, h.ed.Snapshot().Presentation)
}

func TestInsertDropsAtCanvasCentre(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t")

	cs := h.components()
	require.Len(t, cs, 1)
	assert.Equal(t, "id1", h.m.selected)
	assert.Equal(t, 440.0, cs[0].Properties.X)
	assert.Equal(t, 325.0, cs[0].Properties.Y)
	assert.Contains(t, h.m.View(), "Add a title")
}

func TestDragCommitsOnceOnEnter(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t")
	past, _ := h.ed.Depth()

	h.keys("right", "right", "right", "down")
	require.NotNil(t, h.m.gesture)
	p, _ := h.ed.Depth()
	assert.Equal(t, past, p, "no commit while dragging")
	assert.Equal(t, 440.0, h.components()[0].Properties.X)

	h.keys("enter")
	assert.Nil(t, h.m.gesture)
	p, _ = h.ed.Depth()
	assert.Equal(t, past+1, p)
	assert.Equal(t, 488.0, h.components()[0].Properties.X)
	assert.Equal(t, 357.0, h.components()[0].Properties.Y)

	h.keys("ctrl+z")
	assert.Equal(t, 440.0, h.components()[0].Properties.X)
}

func TestEscCancelsDrag(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t")
	past, _ := h.ed.Depth()

	h.keys("shift+right", "esc")
	assert.Nil(t, h.m.gesture)
	p, _ := h.ed.Depth()
	assert.Equal(t, past, p)
	assert.Equal(t, 440.0, h.components()[0].Properties.X)
}

func TestArrowsNeedASelection(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("right")
	assert.Nil(t, h.m.gesture)
	assert.Contains(t, h.m.message, "Select a component")
}

func TestSelectionCyclesInPaintOrder(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t", "s", "esc")
	assert.Empty(t, h.m.selected)

	h.keys("tab")
	assert.Equal(t, "id1", h.m.selected)
	h.keys("tab")
	assert.Equal(t, "id2", h.m.selected)
	h.keys("tab")
	assert.Equal(t, "id1", h.m.selected)
	h.keys("shift+tab")
	assert.Equal(t, "id2", h.m.selected)
}

func TestUndoDropsStaleSelection(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t", "ctrl+z")
	assert.Empty(t, h.components())
	assert.Empty(t, h.m.selected)

	h.keys("ctrl+y")
	assert.Len(t, h.components(), 1)
}

func TestZOrderKeys(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t", "s")
	require.Equal(t, "id2", h.m.selected)

	h.keys("{")
	z := map[string]int{}
	for _, c := range h.components() {
		z[c.ID] = c.ZIndex
	}
	assert.Equal(t, map[string]int{"id2": 1, "id1": 2}, z)
}

func TestCopyPaste(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t", "c")
	assert.Contains(t, h.clip.text, `"componentType":"text"`)

	h.keys("v")
	cs := h.components()
	require.Len(t, cs, 2)
	assert.Equal(t, cs[1].ID, h.m.selected)
	assert.Equal(t, cs[0].Properties.X+pasteOffset, cs[1].Properties.X)
	assert.Equal(t, 2, cs[1].ZIndex)

	h.clip.text = "not json"
	h.keys("v")
	assert.Len(t, h.components(), 2)
}

func TestStyleResizeRotate(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("t", "B", "U", "r", "+")

	c := h.components()[0]
	assert.False(t, c.Properties.IsBold, "title preset starts bold")
	assert.True(t, c.Properties.IsUnderline)
	assert.Equal(t, 15.0, c.Properties.Rotation)
	assert.InDelta(t, 440, c.Properties.Width, 1e-6)
	assert.InDelta(t, 77, c.Properties.Height, 1e-6)
}

func TestTitleInput(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("e")
	require.Equal(t, modeInput, h.m.mode)
	assert.Equal(t, "Deck", string(h.m.input))

	h.keys("backspace", "backspace", "backspace", "backspace", "New", "space", "Deck", "enter")
	assert.Equal(t, modeEdit, h.m.mode)
	assert.Equal(t, "New Deck", h.ed.Snapshot().Presentation.Title)

	h.keys("e", "X", "esc")
	assert.Equal(t, "New Deck", h.ed.Snapshot().Presentation.Title)
}

func TestTitleInputStopsAtLimit(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))
	h.keys("e")
	h.m.input = []rune(strings.Repeat("a", models.MaxTitleLength-1))
	h.keys("xyz")
	assert.Len(t, h.m.input, models.MaxTitleLength)
	assert.Contains(t, h.m.View(), "limited to 255 characters")

	h.keys("space", "enter")
	title := h.ed.Snapshot().Presentation.Title
	assert.Len(t, title, models.MaxTitleLength)
	assert.True(t, strings.HasSuffix(title, "ax"))
}

func TestSlideKeys(t *testing.T) {
	h := newHarness(t)
	h.load(deck(3))

	h.keys("]")
	assert.Equal(t, "s2", h.ed.Snapshot().ActiveSlideID)
	h.keys("K")
	s := h.ed.Snapshot()
	assert.Equal(t, "s2", s.Presentation.Slides[0].ID)
	assert.Equal(t, 1, s.Presentation.Slides[0].PageNumber)

	h.keys("n")
	s = h.ed.Snapshot()
	assert.Len(t, s.Presentation.Slides, 4)
	assert.Equal(t, s.Presentation.Slides[3].ID, s.ActiveSlideID)
}

func TestDeleteKeyPolicy(t *testing.T) {
	h := newHarness(t)
	h.load(deck(2))
	h.keys("t", "x")
	assert.Empty(t, h.components())
	assert.Len(t, h.ed.Snapshot().Presentation.Slides, 2)

	h.keys("delete")
	s := h.ed.Snapshot()
	assert.Len(t, s.Presentation.Slides, 1)
	assert.Equal(t, "s2", s.ActiveSlideID)
}

func TestSaveKeys(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))

	cmd := h.send(keyMsg("ctrl+s"))
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, 1, h.saver.flushes)
	assert.Equal(t, "Saved", h.m.message)

	h.keys("R")
	assert.Equal(t, 1, h.saver.retries)
}

func TestQuitFlushesFirst(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))

	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, flushedMsg{quit: true}, msg)
	assert.Equal(t, 1, h.saver.flushes)

	cmd = h.send(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitFromErrorScreenSkipsSave(t *testing.T) {
	h := newHarness(t)
	h.send(loadedMsg{id: "p1", err: errors.New("boom")})
	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Zero(t, h.saver.flushes)
}

func TestEditorChangesWakeTheView(t *testing.T) {
	h := newHarness(t)
	h.load(deck(1))

	msg := h.m.waitForChange()()
	require.IsType(t, changeMsg{}, msg)
	assert.Equal(t, editor.OpLoad, msg.(changeMsg).Op)
	assert.NotNil(t, h.send(msg))
}

func TestDrawSlideMarksSelection(t *testing.T) {
	slide := models.CreateSlide("s1", "p1", 1)
	c := models.CreateComponent("c1", slide, models.ComponentText, models.PropertiesPatch{
		Width: models.Ptr(160.0), Height: models.Ptr(192.0), Content: models.Ptr("hello"),
	})
	slide.Components = append(slide.Components, c)

	lines := drawSlide(&slide, 40, 11, placement.Scale(0.25), "c1", nil)
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "#===#"))
	assert.True(t, strings.HasPrefix(lines[1], "#hel#"))

	lines = drawSlide(&slide, 40, 11, placement.Scale(0.25), "", nil)
	assert.True(t, strings.HasPrefix(lines[0], "+---+"))
}
