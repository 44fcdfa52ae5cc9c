package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
	"github.com/velocitylab/gravity-runner/internal/sim"
	"github.com/velocitylab/gravity-runner/internal/storage"
)

// holdWindowTicks is how many ticks an intent stays "held" after its last
// key event. Terminals do not deliver key-up, so the host treats key repeat
// as evidence the key is still down and synthesizes the intent end when the
// repeats stop.
const holdWindowTicks = 8

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)
)

// Model is the Bubble Tea host for one game session. It owns the screen
// buffer and the input hold windows; everything else lives in the session.
type Model struct {
	session *sim.Session
	screen  *core.Screen
	store   *storage.Store
	keys    *KeyMapper
	logger  *log.Logger

	holds   map[core.Intent]int
	lastRun *engine.RunEndedEvent
	bestRun float64

	width    int
	height   int
	quitting bool
}

// NewGameHost assembles a complete playable host: it builds a session from
// the configs, registers the presentation module and starts the scheduler.
// The store may be nil, in which case runs are not persisted.
func NewGameHost(cfg config.RunnerConfig, rt core.RuntimeConfig, store *storage.Store, logger *log.Logger) (*Model, error) {
	session, err := sim.NewSession(cfg, rt, logger)
	if err != nil {
		return nil, err
	}

	renderer := NewWorldRenderer(session)
	if err := session.Scheduler().Register("renderer", renderer, sim.PriorityPresentation); err != nil {
		return nil, err
	}

	if err := session.Start(); err != nil {
		return nil, err
	}

	return NewModel(session, store, logger), nil
}

// NewModel creates a host model around a started session. The store may be
// nil, in which case runs are not persisted.
func NewModel(session *sim.Session, store *storage.Store, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := session.Runtime()

	m := &Model{
		session: session,
		screen:  core.NewScreen(rt.ScreenW, rt.ScreenH),
		store:   store,
		keys:    NewKeyMapper(),
		logger:  logger,
		holds:   make(map[core.Intent]int),
		width:   rt.ScreenW,
		height:  rt.ScreenH,
	}

	session.Bus().Subscribe(engine.TopicRunEnded, func(ev engine.Event) {
		run, ok := ev.(engine.RunEndedEvent)
		if !ok {
			return
		}
		m.lastRun = &run
		m.persistRun(run)
	}, m)

	if store != nil {
		if best, err := store.BestDistance(); err == nil {
			m.bestRun = best
		}
	}

	return m
}

// persistRun writes a finished run to storage.
func (m *Model) persistRun(run engine.RunEndedEvent) {
	if run.Distance > m.bestRun {
		m.bestRun = run.Distance
	}
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRun(storage.RunRecord{
		Distance:   run.Distance,
		Score:      run.Score,
		Difficulty: run.Difficulty,
		Duration:   run.Duration,
	})
	if err != nil {
		m.logger.Error("failed to save run", "err", err)
	}
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.session.Runtime().TickRate)
}

// Update handles ticks, keys and terminal resizes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.tickHolds()
		m.session.Step(time.Time(msg), m.screen)
		return m, tickCmd(m.session.Runtime().TickRate)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, core.Max(1, msg.Height-1))
		return m, nil
	}

	return m, nil
}

// tickHolds expires intent hold windows. When a window reaches zero the
// host publishes the synthetic intent end.
func (m *Model) tickHolds() {
	for intent, left := range m.holds {
		left--
		if left <= 0 {
			delete(m.holds, intent)
			m.session.Bus().Publish(engine.IntentEndedEvent{Intent: intent})
			continue
		}
		m.holds[intent] = left
	}
}

// pressIntent publishes the intent start on the first key event and refreshes
// the hold window on repeats.
func (m *Model) pressIntent(intent core.Intent) {
	if _, held := m.holds[intent]; !held {
		m.session.Bus().Publish(engine.IntentStartedEvent{Intent: intent})
	}
	m.holds[intent] = holdWindowTicks
}

// releaseAllIntents ends every held intent immediately, used when leaving
// the Playing mode so no input leaks into the next run.
func (m *Model) releaseAllIntents() {
	for intent := range m.holds {
		delete(m.holds, intent)
		m.session.Bus().Publish(engine.IntentEndedEvent{Intent: intent})
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bus := m.session.Bus()
	mode := m.session.Modes().Current()

	switch m.keys.MapControl(msg) {
	case ControlQuit:
		m.quitting = true
		m.releaseAllIntents()
		m.session.Stop()
		return m, tea.Quit

	case ControlPause:
		switch mode {
		case engine.ModePlaying:
			m.releaseAllIntents()
			bus.Publish(engine.GamePauseEvent{})
		case engine.ModePaused:
			bus.Publish(engine.GameResumeEvent{})
		}
		return m, nil

	case ControlRestart:
		if mode == engine.ModeGameOver {
			bus.Publish(engine.GameRestartEvent{})
		}
		return m, nil

	case ControlConfirm:
		switch mode {
		case engine.ModeMenu:
			bus.Publish(engine.GameStartEvent{})
		case engine.ModePaused:
			bus.Publish(engine.GameResumeEvent{})
		case engine.ModeGameOver:
			bus.Publish(engine.GameRestartEvent{})
		}
		return m, nil

	case ControlBack:
		switch mode {
		case engine.ModePaused, engine.ModeGameOver:
			m.releaseAllIntents()
			bus.Publish(engine.GameStopEvent{})
		}
		return m, nil
	}

	if mode == engine.ModePlaying {
		if intent := m.keys.MapIntent(msg); intent != core.IntentNone {
			m.pressIntent(intent)
		}
	}
	return m, nil
}

// View renders the current mode: the game frame while playing, overlays
// otherwise.
func (m *Model) View() string {
	if m.quitting {
		return "Thanks for playing!\n"
	}

	switch m.session.Modes().Current() {
	case engine.ModeLoading:
		return subtitleStyle.Render("loading...")
	case engine.ModeMenu:
		return m.menuView()
	case engine.ModeGameOver:
		return m.overlayOn(m.gameOverView())
	case engine.ModePaused:
		return m.overlayOn(m.pausedView())
	default:
		return RenderScreen(m.screen)
	}
}

// overlayOn centers an overlay box on top of the frozen game frame.
func (m *Model) overlayOn(overlay string) string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		overlayStyle.Render(overlay))
}

func (m *Model) menuView() string {
	content := titleStyle.Render("G R A V I T Y  R U N N E R") + "\n\n"
	if m.bestRun > 0 {
		content += fmt.Sprintf("best distance: %dm\n\n", int(m.bestRun))
	}
	content += subtitleStyle.Render(
		"a/d move   space jump   x dash   g flip gravity\n\n" +
			"enter  play\n" +
			"p      pause\n" +
			"q      quit")
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		overlayStyle.Render(content))
}

func (m *Model) pausedView() string {
	return titleStyle.Render("PAUSED") + "\n\n" +
		subtitleStyle.Render("p resume   esc menu   q quit")
}

func (m *Model) gameOverView() string {
	content := titleStyle.Render("GAME OVER") + "\n\n"
	if m.lastRun != nil {
		content += fmt.Sprintf("distance  %dm\n", int(m.lastRun.Distance))
		content += fmt.Sprintf("score     %d\n", m.lastRun.Score)
		content += fmt.Sprintf("level     %d\n", m.lastRun.Difficulty)
		content += fmt.Sprintf("time      %s\n\n", m.lastRun.Duration.Round(time.Second))
		if m.lastRun.Distance >= m.bestRun && m.bestRun > 0 {
			content += titleStyle.Render("new best!") + "\n\n"
		}
	}
	content += subtitleStyle.Render("r retry   esc menu   q quit")
	return content
}
