package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	activeStyle  = lipgloss.NewStyle().Reverse(true)
	sidebarStyle = lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(1)
	canvasStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	dragStyle    = canvasStyle.Copy().BorderForeground(lipgloss.Color("12"))
	dialogStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	statusStyles = map[editor.SaveStatus]lipgloss.Style{
		editor.StatusSaving:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		editor.StatusSucceeded: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		editor.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// statusLabel is the header text for a save status; idle shows nothing.
func statusLabel(s editor.SaveStatus) string {
	switch s {
	case editor.StatusSaving:
		return "Saving..."
	case editor.StatusSucceeded:
		return "All changes saved"
	case editor.StatusFailed:
		return "Save failed! (R to retry)"
	}
	return ""
}

func (m Model) View() string {
	switch m.mode {
	case modeLoading:
		return hintStyle.Render(fmt.Sprintf("Loading presentation %s...", m.id))
	case modeError:
		body := errorStyle.Render("Could not load presentation") + "\n\n" +
			fmt.Sprintf("%v", m.err) + "\n\n" +
			hintStyle.Render("r retry • q quit")
		return dialogStyle.Render(body)
	}
	if m.help {
		return m.helpView()
	}

	s := m.ed.Snapshot()
	if s.Presentation == nil {
		return ""
	}

	cols, rows := m.layout()
	slide := s.ActiveSlide()
	canvas := strings.Join(drawSlide(slide, cols, rows, m.scale(), m.selected, m.gesture), "\n")
	frame := canvasStyle
	if m.gesture != nil {
		frame = dragStyle
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.slideStrip(s)),
		frame.Render(canvas),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.header(s), body, m.footer())
}

func (m Model) header(s editor.PresentState) string {
	parts := []string{titleStyle.Render(s.Presentation.Title)}
	if label := statusLabel(s.SaveStatus); label != "" {
		parts = append(parts, statusStyles[s.SaveStatus].Render(label))
	}
	undo, redo := "undo", "redo"
	if !m.ed.CanUndo() {
		undo = hintStyle.Render(undo)
	}
	if !m.ed.CanRedo() {
		redo = hintStyle.Render(redo)
	}
	parts = append(parts, undo+" "+redo)
	return strings.Join(parts, "  ")
}

func (m Model) slideStrip(s editor.PresentState) string {
	lines := make([]string, 0, len(s.Presentation.Slides))
	for _, slide := range s.Presentation.Slides {
		line := fmt.Sprintf("%2d  %d items", slide.PageNumber, len(slide.Components))
		if slide.ID == s.ActiveSlideID {
			line = activeStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, hintStyle.Render("no slides (n)"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) footer() string {
	if m.mode == modeInput {
		prompt := "Title: "
		if m.inputTarget == inputContent {
			prompt = "Content: "
		}
		hints := "enter save • esc cancel"
		if m.message != "" {
			hints = m.message + " • " + hints
		}
		return prompt + string(m.input) + "█\n" + hintStyle.Render(hints)
	}

	info := m.message
	if c := m.selectedComponent(); c != nil && info == "" {
		p := c.Properties
		if m.gesture != nil {
			p.X, p.Y = m.gesture.Position()
		}
		info = fmt.Sprintf("%s  x=%.0f y=%.0f w=%.0f h=%.0f rot=%.0f z=%d",
			c.ComponentType, p.X, p.Y, p.Width, p.Height, p.Rotation, c.ZIndex)
	}
	hints := "tab select • arrows move • t/s/f insert • n slide • x delete • ctrl+z/y undo/redo • ? help • q quit"
	if m.gesture != nil {
		hints = "arrows move • enter drop • esc cancel"
	}
	return info + "\n" + hintStyle.Render(hints)
}

func (m Model) helpView() string {
	help := []string{
		titleStyle.Render("Keys"),
		"",
		"tab / shift+tab   select next / previous component",
		"arrows            move selection (shift: faster), enter drops, esc cancels",
		"[ / ]             previous / next slide",
		"K / J             move slide up / down",
		"n                 new slide",
		"t / s / f         insert text / shape / formula (repeat to cycle presets)",
		"i                 insert image data URI from clipboard",
		"{ / }             send to back / bring to front",
		"+ / -             grow / shrink",
		"r                 rotate 15°",
		"B / I / U         bold / italic / underline",
		"e / E             edit title / component content",
		"c / v             copy / paste component",
		"x, delete         delete component, or the slide if none selected",
		"ctrl+z / ctrl+y   undo / redo",
		"ctrl+s            save now",
		"R                 retry a failed save",
		"q                 save and quit",
	}
	return dialogStyle.Render(strings.Join(help, "\n"))
}

func paintOrderIDs(slide *models.Slide) []string {
	ordered := placement.PaintOrder(slide.Components)
	ids := make([]string, len(ordered))
	for i, c := range ordered {
		ids[i] = c.ID
	}
	return ids
}
