package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
	"github.com/victor-hucklenbroich/desk-controller/internal/desk"
	"github.com/victor-hucklenbroich/desk-controller/internal/paths"
	"github.com/victor-hucklenbroich/desk-controller/internal/proc"
	"github.com/victor-hucklenbroich/desk-controller/internal/ui"
	"github.com/victor-hucklenbroich/desk-controller/internal/watcher"
)

const defaultStartHeight = 75

// heightMsg publishes a displayed height update from the coordinator.
type heightMsg struct {
	height int
	slider bool
}

// controlsMsg gates interactive input around a transition.
type controlsMsg struct {
	enabled bool
}

// configMsg carries a config reload from the file watcher.
type configMsg struct {
	event watcher.ConfigEvent
}

// channelListener marshals coordinator callbacks into the bubbletea event
// loop. Posting never blocks; a full channel drops the update (the next
// one supersedes it anyway).
type channelListener struct {
	ch chan tea.Msg
}

func (l channelListener) HeightChanged(height int, updateSlider bool) {
	l.post(heightMsg{height: height, slider: updateSlider})
}

func (l channelListener) ControlsEnabled(enabled bool) {
	l.post(controlsMsg{enabled: enabled})
}

func (l channelListener) post(msg tea.Msg) {
	select {
	case l.ch <- msg:
	default:
		debug.Log("UI_EVENT_DROPPED type=%T", msg)
	}
}

type model struct {
	cfg       config.Config
	coord     *desk.Coordinator
	panel     *ui.Panel
	gauge     progress.Model
	events    chan tea.Msg
	cfgEvents <-chan watcher.ConfigEvent

	displayed int
	target    int
	enabled   bool
	moving    bool
	errText   string

	width  int
	height int
}

func newModel(cfg config.Config, coord *desk.Coordinator, events chan tea.Msg, cfgEvents <-chan watcher.ConfigEvent) model {
	gauge := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	gauge.Width = 40

	start := coord.Height()
	return model{
		cfg:       cfg,
		coord:     coord,
		panel:     ui.NewPanel(80),
		gauge:     gauge,
		events:    events,
		cfgEvents: cfgEvents,
		displayed: start,
		target:    start,
		enabled:   true,
		width:     80,
		height:    24,
	}
}

// watchEventsCmd delivers the next coordinator event to Update.
func watchEventsCmd(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// watchConfigCmd delivers the next config reload to Update.
func watchConfigCmd(ch <-chan watcher.ConfigEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{event: event}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{watchEventsCmd(m.events)}
	if cmd := watchConfigCmd(m.cfgEvents); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panel.SetWidth(msg.Width)
		m.panel.SetHeight(msg.Height)
		if w := msg.Width - 16; w > 10 && w < 60 {
			m.gauge.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case heightMsg:
		m.displayed = msg.height
		if msg.slider {
			m.target = msg.height
		}
		return m, watchEventsCmd(m.events)

	case controlsMsg:
		m.enabled = msg.enabled
		m.moving = !msg.enabled
		return m, watchEventsCmd(m.events)

	case configMsg:
		if msg.event.Err != nil {
			m.errText = fmt.Sprintf("config reload failed: %v", msg.event.Err)
		} else {
			m.cfg = msg.event.Config
			m.errText = ""
			m.target = m.cfg.ClampHeight(m.target)
		}
		return m, watchConfigCmd(m.cfgEvents)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quitting is the one input that stays live during a transition.
	if key == "q" || key == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.enabled {
		return m, nil
	}

	switch key {
	case "left", "down", "h", "j":
		m.target = m.cfg.ClampHeight(m.target - 1)
		return m, nil

	case "right", "up", "l", "k":
		m.target = m.cfg.ClampHeight(m.target + 1)
		return m, nil

	case "enter", " ":
		// The slider already sits at the target, so the indicator does
		// not need to follow the animation.
		return m.beginMove(m.target, false)

	default:
		if idx := presetIndex(key); idx >= 0 && idx < len(m.cfg.Presets) {
			return m.beginMove(m.cfg.Presets[idx].Height, true)
		}
	}
	return m, nil
}

func (m model) beginMove(target int, animateSlider bool) (tea.Model, tea.Cmd) {
	if err := m.coord.Begin(target, animateSlider); err != nil {
		debug.Log("UI_BEGIN_REJECTED target=%d error=%v", target, err)
		return m, nil
	}
	m.enabled = false
	m.moving = true
	m.target = target
	return m, nil
}

func presetIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}

func (m model) View() string {
	span := m.cfg.MaxHeight - m.cfg.MinHeight
	percent := 0.0
	if span > 0 {
		percent = float64(m.target-m.cfg.MinHeight) / float64(span)
	}

	return m.panel.Render(ui.Status{
		Displayed: m.displayed,
		Target:    m.target,
		Min:       m.cfg.MinHeight,
		Max:       m.cfg.MaxHeight,
		Gauge:     m.gauge.ViewAs(percent),
		Presets:   m.cfg.Presets,
		Enabled:   m.enabled,
		Moving:    m.moving,
		Err:       m.errText,
	})
}

func main() {
	if err := paths.EnsureStateDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create state directory: %v\n", err)
		os.Exit(1)
	}

	// One instance per machine - two UIs would race move commands
	// against the same desk.
	lockFile, err := proc.AcquireLockFile(paths.LockFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := lockFile.Release(); err != nil {
			debug.Log("MAIN_LOCKFILE_RELEASE_ERROR error=%v", err)
		}
	}()

	cfgPath := paths.ConfigFile()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debug.Log("MAIN_CONFIG path=%s tool=%s", cfgPath, cfg.Tool)

	supervisor := proc.NewSupervisor(cfg)

	// The server keeps the controller's connection to the desk warm.
	// Without it moves still work, just slower - so a spawn failure is a
	// warning, not a fatal error.
	server, err := supervisor.StartServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
	}

	events := make(chan tea.Msg, 64)
	coord := desk.NewCoordinator(
		supervisor,
		cfg.ClampHeight(defaultStartHeight),
		desk.WithListener(channelListener{ch: events}),
	)

	var cfgEvents <-chan watcher.ConfigEvent
	cfgWatcher, err := watcher.NewConfigWatcher(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: config reload disabled: %v\n", err)
	} else {
		cfgEvents = cfgWatcher.Start()
		defer cfgWatcher.Close()
	}

	p := tea.NewProgram(newModel(cfg, coord, events, cfgEvents), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
	}

	if server != nil {
		if err := server.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: failed to stop controller server: %v\n", err)
		}
	}
	debug.Log("MAIN_EXIT")
}
