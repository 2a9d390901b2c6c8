package tui

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

// pasteOffset shifts pasted components so they do not hide the original.
const pasteOffset = 20

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case modeLoading:
		if msg.String() == "q" {
			return m.quit()
		}
		return m, nil

	case modeError:
		switch msg.String() {
		case "q", "esc":
			return m.quit()
		case "r":
			m.mode = modeLoading
			m.err = nil
			return m, m.load()
		}
		return m, nil

	case modeInput:
		return m.handleInput(msg)
	}

	if m.help {
		switch msg.String() {
		case "?", "esc", "q":
			m.help = false
		}
		return m, nil
	}

	if m.gesture != nil {
		return m.handleDrag(msg)
	}

	m.message = ""
	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.help = true

	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		m.beginDrag()
		if m.gesture != nil {
			return m.handleDrag(msg)
		}

	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "esc":
		m.selected = ""

	case "[":
		m.stepSlide(-1)
	case "]":
		m.stepSlide(1)
	case "n":
		m.ed.AddSlide(m.newID())
		m.selected = ""
	case "K":
		m.engine.MoveSlide(-1)
	case "J":
		m.engine.MoveSlide(1)

	case "t":
		m.insertPreset(models.ComponentText, models.TextPresets())
	case "s":
		m.insertPreset(models.ComponentShape, models.ShapePresets())
	case "f":
		m.insertPreset(models.ComponentFormula, models.FormulaPresets())
	case "i":
		m.insertImage()

	case "{":
		if m.selected != "" {
			m.engine.SendToBack(m.selected)
		}
	case "}":
		if m.selected != "" {
			m.engine.BringToFront(m.selected)
		}
	case "+", "=":
		m.resizeSelected(1.1)
	case "-":
		m.resizeSelected(1 / 1.1)
	case "r":
		if c := m.selectedComponent(); c != nil {
			m.engine.Rotate(c.ID, math.Mod(c.Properties.Rotation+15, 360))
		}
	case "B", "I", "U":
		m.toggleStyle(msg.String())

	case "ctrl+z":
		m.ed.Undo()
		m.dropStaleSelection()
	case "ctrl+y":
		m.ed.Redo()
		m.dropStaleSelection()

	case "x", "delete":
		m.engine.Delete(m.selected)
		m.selected = ""

	case "c":
		m.copySelected()
	case "v":
		m.paste()

	case "e":
		if p := m.ed.Snapshot().Presentation; p != nil {
			m.startInput(inputTitle, p.Title)
		}
	case "E":
		if c := m.selectedComponent(); c != nil {
			m.startInput(inputContent, c.Properties.Content)
		}

	case "ctrl+s":
		if m.saver != nil {
			m.message = "Saving..."
			return m, m.flush(false)
		}
	case "R":
		if m.saver != nil {
			m.saver.Retry()
			m.message = "Retrying save"
		}
	}
	return m, nil
}

func (m *Model) beginDrag() {
	if m.selected == "" {
		m.message = "Select a component first (tab)"
		return
	}
	if g, ok := m.engine.BeginDrag(m.selected, m.containerWidth()); ok {
		m.gesture = g
	}
}

func (m Model) handleDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := 1.0
	key := msg.String()
	if strings.HasPrefix(key, "shift+") {
		step = 4
		key = strings.TrimPrefix(key, "shift+")
	}

	switch key {
	case "up":
		m.gesture.Move(0, -step*cellHeight)
	case "down":
		m.gesture.Move(0, step*cellHeight)
	case "left":
		m.gesture.Move(-step*cellWidth, 0)
	case "right":
		m.gesture.Move(step*cellWidth, 0)
	case "enter":
		m.engine.EndDrag(m.gesture)
		m.gesture = nil
	case "esc":
		m.gesture = nil
	default:
		m.message = "enter to drop, esc to cancel"
	}
	return m, nil
}

func (m *Model) cycleSelection(delta int) {
	slide := m.ed.Snapshot().ActiveSlide()
	if slide == nil || len(slide.Components) == 0 {
		m.selected = ""
		return
	}
	ordered := paintOrderIDs(slide)
	idx := -1
	for i, id := range ordered {
		if id == m.selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta > 0 {
			idx = -1
		} else {
			idx = 0
		}
	}
	n := len(ordered)
	m.selected = ordered[((idx+delta)%n+n)%n]
}

func (m *Model) stepSlide(delta int) {
	s := m.ed.Snapshot()
	if s.Presentation == nil || len(s.Presentation.Slides) == 0 {
		return
	}
	idx := s.Presentation.SlideIndex(s.ActiveSlideID)
	next := min(max(idx+delta, 0), len(s.Presentation.Slides)-1)
	if next != idx {
		m.ed.SetActiveSlide(s.Presentation.Slides[next].ID)
		m.selected = ""
	}
}

func (m *Model) insertPreset(t models.ComponentType, presets []models.Preset) {
	if len(presets) == 0 {
		return
	}
	i := m.presetIndex[t] % len(presets)
	m.presetIndex[t] = i + 1

	// drop at the centre of the visible canvas
	cw := m.containerWidth()
	canvas := placement.Rect{Width: cw, Height: cw * models.CanvasHeight / models.CanvasWidth}
	item := placement.Rect{Left: canvas.Width / 2, Top: canvas.Height / 2}
	if c, ok := m.engine.Drop(presets[i], &item, &canvas, cw); ok {
		m.selected = c.ID
		m.message = "Inserted " + presets[i].Label
	}
}

func (m *Model) insertImage() {
	text, err := m.clipboard.ReadAll()
	if err != nil || !strings.HasPrefix(text, "data:image/") {
		m.message = "Clipboard holds no image data URI"
		return
	}
	if c, ok := m.engine.AddImage(strings.TrimSpace(text)); ok {
		m.selected = c.ID
	}
}

func (m *Model) resizeSelected(factor float64) {
	c := m.selectedComponent()
	if c == nil {
		return
	}
	scale := m.scale()
	w := scale.ToScreen(c.Properties.Width) * factor
	h := scale.ToScreen(c.Properties.Height) * factor
	m.engine.Resize(c.ID, w, h, m.containerWidth())
}

func (m *Model) toggleStyle(key string) {
	c := m.selectedComponent()
	if c == nil || c.ComponentType != models.ComponentText {
		return
	}
	var patch models.PropertiesPatch
	switch key {
	case "B":
		patch.IsBold = models.Ptr(!c.Properties.IsBold)
	case "I":
		patch.IsItalic = models.Ptr(!c.Properties.IsItalic)
	case "U":
		patch.IsUnderline = models.Ptr(!c.Properties.IsUnderline)
	}
	m.ed.UpdateComponentProperties(c.ID, patch)
}

func (m *Model) copySelected() {
	c := m.selectedComponent()
	if c == nil {
		return
	}
	raw, err := json.Marshal(c)
	if err != nil {
		m.message = "Copy failed: " + err.Error()
		return
	}
	if err := m.clipboard.WriteAll(string(raw)); err != nil {
		m.message = "Copy failed: " + err.Error()
		return
	}
	m.message = "Copied"
}

func (m *Model) paste() {
	text, err := m.clipboard.ReadAll()
	if err != nil {
		m.message = "Paste failed: " + err.Error()
		return
	}
	var c models.CanvasComponent
	if err := json.Unmarshal([]byte(text), &c); err != nil || c.ComponentType == "" {
		m.message = "Clipboard holds no component"
		return
	}
	if pasted, ok := m.engine.Paste(c, pasteOffset); ok {
		m.selected = pasted.ID
	}
}

func (m *Model) startInput(target inputTarget, initial string) {
	m.mode = modeInput
	m.message = ""
	m.inputTarget = target
	m.input = []rune(initial)
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := string(m.input)
		switch m.inputTarget {
		case inputTitle:
			m.ed.UpdateTitle(value)
		case inputContent:
			if c := m.selectedComponent(); c != nil {
				m.ed.UpdateComponentProperties(c.ID, models.PropertiesPatch{Content: &value})
			}
		}
		m.mode = modeEdit
		m.input = nil
	case tea.KeyEsc:
		m.mode = modeEdit
		m.input = nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.appendInput([]rune{' '})
	case tea.KeyRunes:
		m.appendInput(msg.Runes)
	}
	return m, nil
}

func (m *Model) appendInput(r []rune) {
	if m.inputTarget == inputTitle {
		if room := models.MaxTitleLength - len(m.input); len(r) > room {
			r = r[:max(room, 0)]
			m.message = fmt.Sprintf("Titles are limited to %d characters", models.MaxTitleLength)
		}
	}
	m.input = append(m.input, r...)
}
