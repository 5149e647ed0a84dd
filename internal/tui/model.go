// internal/tui/model.go
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/frame"
	"github.com/xkilldash9x/dragsort/internal/page"
)

// Settings controls how terminal cells map onto page pixels.
type Settings struct {
	CellWidth  float64
	CellHeight float64
	// FPS is the rate frames are flushed at while the program runs.
	FPS int
}

// DefaultSettings maps one cell to 8x16 pixels at 60 frames per second.
func DefaultSettings() Settings {
	return Settings{CellWidth: 8, CellHeight: 16, FPS: 60}
}

// frameMsg carries the time of an animation frame.
type frameMsg time.Time

// Model is the Bubble Tea model for interactive sorting. Mouse cells are
// converted to pixel coordinates at the cell center and dispatched to the
// controller; frame ticks flush the controller's frame queue. Bubble Tea's
// update loop is the only goroutine touching the page.
type Model struct {
	page     *page.Page
	ctrl     *dragdrop.Controller
	queue    *frame.Queue
	logger   *zap.Logger
	settings Settings
	styles   Styles

	width, height int
	lastErr       error
}

// New binds a controller to p. The page is resized to the terminal once the
// first window size arrives.
func New(p *page.Page, opts dragdrop.Options, settings Settings, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultSettings()
	if settings.CellWidth <= 0 {
		settings.CellWidth = def.CellWidth
	}
	if settings.CellHeight <= 0 {
		settings.CellHeight = def.CellHeight
	}
	if settings.FPS <= 0 {
		settings.FPS = def.FPS
	}

	queue := frame.NewQueue()
	ctrl, err := dragdrop.NewController(p, queue, opts, logger)
	if err != nil {
		return nil, err
	}
	vp := p.Viewport()
	return &Model{
		page:     p,
		ctrl:     ctrl,
		queue:    queue,
		logger:   logger.Named("tui"),
		settings: settings,
		styles:   DefaultStyles(),
		width:    int(vp.Width / settings.CellWidth),
		height:   int(vp.Height/settings.CellHeight) + 1,
	}, nil
}

// Controller exposes the drag controller.
func (m *Model) Controller() *dragdrop.Controller { return m.ctrl }

// Page exposes the document being sorted.
func (m *Model) Page() *page.Page { return m.page }

// Err is the last error returned by the controller, if any.
func (m *Model) Err() error { return m.lastErr }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.settings.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init starts the frame ticker.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles window, keyboard, mouse and frame messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := m.height - 1 // status line
		if rows < 1 {
			rows = 1
		}
		m.page.Resize(float64(m.width)*m.settings.CellWidth, float64(rows)*m.settings.CellHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// Never leave the document mid-drag.
			m.record(m.ctrl.PointerUp(dragdrop.PointerEvent{Type: dragdrop.EventUp}))
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case frameMsg:
		m.queue.Flush(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev := dragdrop.PointerEvent{
		Source: dragdrop.SourceMouse,
		X:      (float64(msg.X) + 0.5) * m.settings.CellWidth,
		Y:      (float64(msg.Y) + 0.5) * m.settings.CellHeight,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		ev.Type = dragdrop.EventDown
		m.lastErr = nil
		m.record(m.ctrl.PointerDown(ev))
	case tea.MouseActionMotion:
		if !m.ctrl.Active() {
			return
		}
		ev.Type = dragdrop.EventMove
		m.record(m.ctrl.PointerMove(ev))
	case tea.MouseActionRelease:
		ev.Type = dragdrop.EventUp
		m.record(m.ctrl.PointerUp(ev))
	}
}

func (m *Model) record(err error) {
	if err == nil {
		return
	}
	m.lastErr = err
	m.logger.Warn("Pointer event failed.", zap.Error(err))
}

// View draws the document and a status line.
func (m *Model) View() string {
	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	canvas := Rasterize(m.page.Layout(), m.width, rows, m.settings.CellWidth, m.settings.CellHeight)
	return canvas.Render(m.styles) + "\n" + m.status()
}

func (m *Model) status() string {
	if m.lastErr != nil {
		return m.styles.Error.Render("error: " + m.lastErr.Error())
	}
	if !m.ctrl.Active() {
		return m.styles.Status.Render("drag an item with the mouse, q to quit")
	}
	line := fmt.Sprintf("dragging %s in %s", page.ItemKey(m.ctrl.Item()), dom.Describe(m.ctrl.SourceList()))
	if as := m.ctrl.AutoScroll(); as.Active() {
		line += fmt.Sprintf(", scrolling %s %s", dom.Describe(as.Target()), as.Direction())
	}
	return m.styles.Status.Render(line)
}

// Run starts an alternate-screen program with mouse motion reporting and
// blocks until it exits or ctx ends.
func Run(ctx context.Context, m *Model, extra ...tea.ProgramOption) error {
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, extra...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
