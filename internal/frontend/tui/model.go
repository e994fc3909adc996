// Package tui is the terminal frontend of the dinner picker, built on Bubble Tea.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dinnerroulette/internal/backdrop"
	"github.com/cory-johannsen/dinnerroulette/internal/roulette"
)

type snapshotMsg roulette.Snapshot

type layoutMsg []backdrop.Position

type rollResultMsg struct{ err error }

// Model is the Bubble Tea model for the picker screen. It renders controller
// snapshots and decoration layouts; it owns no picker state of its own.
type Model struct {
	ctrl   *roulette.Controller
	deco   *backdrop.Decoration
	logger *zap.Logger

	snaps   chan roulette.Snapshot
	layouts chan []backdrop.Position
	done    chan struct{}

	snap      roulette.Snapshot
	labels    []string
	positions []backdrop.Position
	width     int
	height    int
}

// New creates a Model subscribed to ctrl and, when non-nil, deco.
//
// Precondition: ctrl and logger must be non-nil.
// Postcondition: The caller must call Detach once the program has exited.
func New(ctrl *roulette.Controller, deco *backdrop.Decoration, logger *zap.Logger) *Model {
	m := &Model{
		ctrl:    ctrl,
		deco:    deco,
		logger:  logger,
		snaps:   make(chan roulette.Snapshot, 64),
		layouts: make(chan []backdrop.Position, 4),
		done:    make(chan struct{}),
		snap:    ctrl.Snapshot(),
	}
	ctrl.Subscribe(m.snaps)
	if deco != nil {
		m.labels = deco.Labels()
		m.positions = deco.Current()
		deco.Subscribe(m.layouts)
	}
	return m
}

// Detach unsubscribes from the controller and decoration and releases any
// pending wait commands.
func (m *Model) Detach() {
	m.ctrl.Unsubscribe(m.snaps)
	if m.deco != nil {
		m.deco.Unsubscribe(m.layouts)
	}
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Model) waitSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.snaps:
			return snapshotMsg(s)
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) waitLayout() tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-m.layouts:
			return layoutMsg(p)
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) roll() tea.Cmd {
	return func() tea.Msg {
		return rollResultMsg{err: m.ctrl.Roll(context.Background())}
	}
}

// Init starts listening for controller and decoration updates.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitSnapshot()}
	if m.deco != nil {
		cmds = append(cmds, m.waitLayout())
	}
	return tea.Batch(cmds...)
}

// Update handles input and state updates.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			if !m.snap.TriggerEnabled() {
				return m, nil
			}
			return m, m.roll()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case snapshotMsg:
		m.snap = roulette.Snapshot(msg)
		return m, m.waitSnapshot()
	case layoutMsg:
		m.positions = []backdrop.Position(msg)
		return m, m.waitLayout()
	case rollResultMsg:
		switch {
		case msg.err == nil:
			m.snap = m.ctrl.Snapshot()
		case errors.Is(msg.err, roulette.ErrRollInProgress):
			m.logger.Debug("ignored trigger while rolling")
		default:
			m.logger.Warn("roll rejected", zap.Error(msg.err))
		}
	}
	return m, nil
}

// View renders the full screen.
func (m *Model) View() string {
	return RenderScreen(m.snap, m.labels, m.positions, m.width, m.height)
}
