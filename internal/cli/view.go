package cli

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/config"
	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

const (
	// viewScale is the number of widget pixels per terminal column. A cell
	// shows two pixel rows of the downsampled frame.
	viewScale = 4

	defaultFPS  = 30
	doubleClick = 400 * time.Millisecond
)

// viewCommand creates the interactive terminal host.
func (c *CLI) viewCommand() *cobra.Command {
	fps := defaultFPS

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the widget in the terminal",
		Long: `Show the widget in the terminal with mouse interaction.

Drag handles with the left button, double-click a handle to reset it, click
empty space to toggle the crosshair and scroll over a 3-D handle to change
its depth. Keys: f redraws everything, space pauses the animation, q quits.

With --config the file is watched and reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps < 1 || fps > 120 {
				return fmt.Errorf("invalid fps: %d (must be within 1-120)", fps)
			}
			return c.runView(cmd.Context(), fps)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", fps, "animation frames per second")
	return cmd
}

func (c *CLI) runView(ctx context.Context, fps int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	// Widget logs are discarded while the program owns the terminal.
	m, err := newViewModel(cfg, log.New(io.Discard), fps)
	if err != nil {
		return err
	}

	if c.configPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		// Watch the directory; editors replace files on save.
		if err := w.Add(filepath.Dir(c.configPath)); err != nil {
			return err
		}
		m.watch = watchConfig(w, c.configPath)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if vm, ok := final.(*viewModel); ok {
		fmt.Println(handleTable(vm.player.Widget.Handles()))
	}
	return nil
}

type tickMsg time.Time

// reloadMsg carries a changed configuration file.
type reloadMsg struct {
	cfg *config.Config
	err error
}

// watchConfig returns a command that waits for the next change of path.
func watchConfig(w *fsnotify.Watcher, path string) tea.Cmd {
	path = filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(path)
				return reloadMsg{cfg: cfg, err: err}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return reloadMsg{err: err}
			}
		}
	}
}

// viewModel is the bubbletea model of the terminal host.
type viewModel struct {
	player *host.Player
	logger *log.Logger
	fps    int
	watch  tea.Cmd // nil without a config file
	now    func() time.Time

	cols, rows int // terminal cells used by the frame
	screen     string
	paused     bool
	lastPress  time.Time
	lastCell   image.Point
	status     string
	err        error
}

func newViewModel(cfg *config.Config, logger *log.Logger, fps int) (*viewModel, error) {
	p, _, err := pipeline.Build(cfg, linegraph.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &viewModel{player: p, logger: logger, fps: fps, now: time.Now}, nil
}

func (m *viewModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.watch)
}

func (m *viewModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "f":
			m.player.Widget.ForceRedraw()
		case " ":
			m.paused = !m.paused
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.mouse(tea.MouseEvent(msg))
	case tea.FocusMsg:
		m.event(linegraph.Event{Kind: linegraph.Enter})
	case tea.BlurMsg:
		m.event(linegraph.Event{Kind: linegraph.Leave})
	case tickMsg:
		if !m.paused && m.player.Ticker != nil {
			m.player.Ticker.Tick()
		}
		m.player.Widget.RequestRefresh(false)
		m.draw()
		return m, m.tick()
	case reloadMsg:
		m.reload(msg)
		return m, m.watch
	}
	return m, nil
}

// resize fits the widget to the terminal, keeping one line for the status.
func (m *viewModel) resize(width, height int) {
	m.cols, m.rows = width, max(height-1, 1)
	m.screen = ""
	m.event(linegraph.Event{
		Kind:   linegraph.Resize,
		Width:  m.cols * viewScale,
		Height: m.rows * 2 * viewScale,
	})
	if m.err == nil {
		m.player.Widget.RequestRefresh(false)
	}
}

func (m *viewModel) event(ev linegraph.Event) {
	if err := m.player.Widget.HandleEvent(ev); err != nil {
		m.err = err
		return
	}
	if ev.Kind == linegraph.Resize {
		m.err = nil
	}
}

// mouse maps a terminal cell to the widget pixel at its centre.
func (m *viewModel) mouse(ev tea.MouseEvent) {
	x := float64(ev.X*viewScale + viewScale/2)
	y := float64(ev.Y*2*viewScale + viewScale)

	switch {
	case ev.Button == tea.MouseButtonWheelUp || ev.Button == tea.MouseButtonWheelDown:
		if ev.Action == tea.MouseActionPress {
			m.event(linegraph.Event{Kind: linegraph.Scroll, X: x, Y: y, Up: ev.Button == tea.MouseButtonWheelUp})
		}
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		cell, now := image.Pt(ev.X, ev.Y), m.now()
		double := cell == m.lastCell && now.Sub(m.lastPress) < doubleClick
		m.lastCell, m.lastPress = cell, now
		if double {
			m.lastPress = time.Time{}
		}
		m.event(linegraph.Event{Kind: linegraph.Press, X: x, Y: y, Double: double})
	case ev.Action == tea.MouseActionRelease:
		m.event(linegraph.Event{Kind: linegraph.Release, X: x, Y: y})
	case ev.Action == tea.MouseActionMotion:
		m.event(linegraph.Event{Kind: linegraph.Motion, X: x, Y: y})
	}
}

// draw exposes a queued frame and converts it to half-block cells.
func (m *viewModel) draw() {
	if m.err != nil || m.cols == 0 {
		return
	}
	if !m.player.Host.TakeDraw() && m.screen != "" {
		return
	}
	frame := m.player.Widget.NewFrame()
	if err := m.player.Widget.Expose(frame); err != nil {
		m.err = err
		return
	}
	w, h := m.player.Widget.Size()
	m.screen = halfBlocks(frame, w/viewScale, (h/viewScale)&^1)
}

// reload replaces the widget with one built from the new configuration.
func (m *viewModel) reload(msg reloadMsg) {
	if msg.err != nil {
		m.status = "reload failed: " + msg.err.Error()
		return
	}
	p, _, err := pipeline.Build(msg.cfg, linegraph.WithLogger(m.logger))
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.player.Widget.Destroy()
	m.player = p
	m.status = "config reloaded"
	if m.cols > 0 {
		m.resize(m.cols, m.rows+1)
	}
}

// halfBlocks renders img at w x h pixels, two pixel rows per line, using
// the upper half block with foreground and background colours.
func halfBlocks(img image.Image, w, h int) string {
	if w < 1 || h < 2 {
		return ""
	}
	small := imaging.Resize(img, w, h, imaging.Box)
	var b strings.Builder
	for y := 0; y+1 < h; y += 2 {
		for x := range w {
			style := lipgloss.NewStyle().
				Foreground(hexColor(small.NRGBAAt(x, y))).
				Background(hexColor(small.NRGBAAt(x, y+1)))
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hexColor(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (m *viewModel) View() string {
	if m.err != nil {
		return styleIconError.Render(iconError) + " " + m.err.Error() + "\n" +
			StyleDim.Render("resize the terminal or press q to quit")
	}
	if m.screen == "" {
		return StyleDim.Render("starting...")
	}

	state := "running"
	if m.paused {
		state = "paused"
	}
	status := StyleDim.Render(fmt.Sprintf("gen %d · %s · q quit  f redraw  space pause",
		m.player.Widget.Generation(), state))
	if m.status != "" {
		status += "  " + StyleWarning.Render(m.status)
	}
	return m.screen + status
}
