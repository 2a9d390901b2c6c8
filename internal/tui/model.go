// Package tui is the terminal front end of the slide editor.
package tui

import (
	"context"
	"log"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

const (
	sidebarWidth  = 16
	chromeRows    = 5
	minCanvasCols = 32
	requestWait   = 30 * time.Second
	changeBuffer  = 64
)

// Loader fetches the document to edit.
type Loader interface {
	Get(ctx context.Context, id string) (models.Presentation, error)
}

// Saver is the autosave side the UI drives directly.
type Saver interface {
	Flush(ctx context.Context) error
	Retry()
}

// Clipboard holds copied components as JSON text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type mode int

const (
	modeLoading mode = iota
	modeError
	modeEdit
	modeInput
)

type inputTarget int

const (
	inputTitle inputTarget = iota
	inputContent
)

type loadedMsg struct {
	id           string
	presentation models.Presentation
	err          error
}

type changeMsg editor.Change

type flushedMsg struct {
	err  error
	quit bool
}

// Options wires a Model.
type Options struct {
	PresentationID string
	Editor         *editor.Editor
	Engine         *placement.Engine
	Loader         Loader
	Saver          Saver
	Clipboard      Clipboard
	NewID          func() string
}

// Model is the bubbletea model of the editor screen.
type Model struct {
	id        string
	ed        *editor.Editor
	engine    *placement.Engine
	loader    Loader
	saver     Saver
	clipboard Clipboard
	newID     func() string

	changes     chan editor.Change
	unsubscribe func()

	width, height int
	mode          mode
	err           error
	help          bool
	quitting      bool

	selected    string
	gesture     *placement.Gesture
	input       []rune
	inputTarget inputTarget
	presetIndex map[models.ComponentType]int
	message     string
}

// New creates the model and subscribes it to editor changes.
func New(o Options) Model {
	m := Model{
		id:          o.PresentationID,
		ed:          o.Editor,
		engine:      o.Engine,
		loader:      o.Loader,
		saver:       o.Saver,
		clipboard:   o.Clipboard,
		newID:       o.NewID,
		changes:     make(chan editor.Change, changeBuffer),
		width:       100,
		height:      32,
		mode:        modeLoading,
		presetIndex: map[models.ComponentType]int{},
	}
	if m.clipboard == nil {
		m.clipboard = systemClipboard{}
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	changes := m.changes
	m.unsubscribe = m.ed.Subscribe(func(c editor.Change) {
		select {
		case changes <- c:
		default:
			// full; View reads the latest snapshot anyway
		}
	})
	return m
}

// Close detaches the model from the editor.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m Model) load() tea.Cmd {
	id, loader := m.id, m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestWait)
		defer cancel()
		p, err := loader.Get(ctx, id)
		return loadedMsg{id: id, presentation: p, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		return changeMsg(<-changes)
	}
}

func (m Model) flush(quit bool) tea.Cmd {
	saver := m.saver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestWait)
		defer cancel()
		return flushedMsg{err: saver.Flush(ctx), quit: quit}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.id != m.id {
			// stale load for a document we no longer show
			return m, nil
		}
		if msg.err != nil {
			log.Printf("Failed to load presentation %s: %v", msg.id, msg.err)
			m.mode = modeError
			m.err = msg.err
			return m, nil
		}
		m.ed.LoadPresentation(msg.presentation)
		m.mode = modeEdit
		m.err = nil
		return m, nil

	case changeMsg:
		m.dropStaleSelection()
		return m, m.waitForChange()

	case flushedMsg:
		if msg.err != nil {
			log.Printf("Save failed: %v", msg.err)
			m.message = "Save failed: " + msg.err.Error()
		} else if !msg.quit {
			m.message = "Saved"
		}
		if msg.quit {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.quitting = true
	if m.saver == nil || m.mode == modeError || m.mode == modeLoading {
		return m, tea.Quit
	}
	m.message = "Saving before exit..."
	return m, m.flush(true)
}

func (m Model) layout() (cols, rows int) {
	cols = max(m.width-sidebarWidth-2, minCanvasCols)
	rows = cols * cellWidth * models.CanvasHeight / models.CanvasWidth / cellHeight
	if avail := m.height - chromeRows; avail > 0 && rows > avail {
		rows = avail
		cols = max(rows*cellHeight*models.CanvasWidth/models.CanvasHeight/cellWidth, minCanvasCols)
	}
	return cols, max(rows, 1)
}

// containerWidth is the on-screen canvas width in screen pixels.
func (m Model) containerWidth() float64 {
	cols, _ := m.layout()
	return float64(cols * cellWidth)
}

func (m Model) scale() placement.Scale {
	return placement.ScaleFor(m.containerWidth())
}

func (m Model) selectedComponent() *models.CanvasComponent {
	if m.selected == "" {
		return nil
	}
	slide := m.ed.Snapshot().ActiveSlide()
	if slide == nil {
		return nil
	}
	return slide.FindComponent(m.selected)
}

func (m *Model) dropStaleSelection() {
	if m.selected != "" && m.selectedComponent() == nil {
		m.selected = ""
		m.gesture = nil
	}
}
