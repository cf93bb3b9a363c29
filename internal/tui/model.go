// Package tui is the full-screen terminal dashboard.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/store"
	"github.com/newthinker/signaldeck/internal/view"
)

// Source is the store the dashboard follows. *store.Store satisfies it.
type Source interface {
	State() store.State
	Refresh(ctx context.Context)
	Subscribe() (<-chan store.State, func())
}

// Backend serves the tabs that fetch on their own.
type Backend interface {
	view.LogFetcher
	view.SettingsService
}

type tab int

const (
	tabDashboard tab = iota
	tabSignals
	tabAnalytics
	tabLogs
	tabSettings
)

var tabNames = []string{"Dashboard", "Signals", "Analytics", "Logs", "Settings"}

func (t tab) String() string {
	return tabNames[t]
}

// messages
type (
	stateMsg    store.State
	logsMsg     view.LogsData
	settingsMsg view.SettingsData
	closedMsg   struct{}
)

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	src     Source
	backend Backend

	updates     <-chan store.State
	unsubscribe func()

	state    store.State
	logs     view.LogsData
	settings view.SettingsData

	logsRequested     bool
	settingsRequested bool

	active tab
	width  int
	height int
}

// New subscribes to src. Call Close when the program ends.
func New(ctx context.Context, src Source, backend Backend) Model {
	updates, unsubscribe := src.Subscribe()
	return Model{
		ctx:         ctx,
		src:         src,
		backend:     backend,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       src.State(),
		logs:        view.LoadingLogs(),
		settings:    view.NewSettings(core.DefaultSettingsForm()),
	}
}

// Close drops the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts listening for store updates
func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = store.State(msg)
		return m, waitForState(m.updates)

	case closedMsg:
		return m, tea.Quit

	case logsMsg:
		m.logs = view.LogsData(msg)
		return m, nil

	case settingsMsg:
		m.settings = view.SettingsData(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			return m.switchTo((m.active + 1) % tab(len(tabNames)))
		case "shift+tab", "left", "h":
			return m.switchTo((m.active + tab(len(tabNames)) - 1) % tab(len(tabNames)))
		case "1", "2", "3", "4", "5":
			return m.switchTo(tab(msg.String()[0] - '1'))
		case "r":
			return m.refresh()
		}
	}

	return m, nil
}

func (m Model) switchTo(t tab) (tea.Model, tea.Cmd) {
	m.active = t
	switch {
	case t == tabLogs && !m.logsRequested:
		m.logsRequested = true
		return m, m.fetchLogs()
	case t == tabSettings && !m.settingsRequested:
		m.settingsRequested = true
		return m, m.fetchSettings()
	}
	return m, nil
}

// refresh reloads the store, or only the logs when they are on screen.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	switch m.active {
	case tabLogs:
		m.logs = view.LoadingLogs()
		return m, m.fetchLogs()
	case tabSettings:
		return m, m.fetchSettings()
	default:
		src, ctx := m.src, m.ctx
		return m, func() tea.Msg {
			src.Refresh(ctx)
			return nil
		}
	}
}

func (m Model) fetchLogs() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return logsMsg(view.LoadLogs(ctx, backend))
	}
}

func (m Model) fetchSettings() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return settingsMsg(view.LoadSettings(ctx, backend))
	}
}

func waitForState(ch <-chan store.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return stateMsg(st)
	}
}
