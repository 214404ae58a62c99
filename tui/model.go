// Package tui is the interactive terminal weather screen. The bubbletea
// event loop is the presentation context: controller tasks queued on a
// dispatch.Queue are pulled into Update one at a time and run there.
package tui

import (
	"context"
	"strings"

	"weather-lookup/dispatch"
	"weather-lookup/lookup"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg carries one dispatcher task into Update
type taskMsg func()

// queueClosedMsg ends the program when the dispatcher stops
type queueClosedMsg struct{}

// Outcomes records what the controller last reported. Its Observe method is
// the lookup.Observer for the screen; it runs inside Update like every
// other dispatcher task.
type Outcomes struct {
	err       error
	succeeded bool
}

func (o *Outcomes) Observe(_ lookup.Screen, err error) {
	o.err = err
	o.succeeded = err == nil
}

// Controller is the part of lookup.Controller the screen drives
type Controller interface {
	Screen() lookup.Screen
	SetSearchText(text string)
	SearchSubmitted(ctx context.Context, text string)
	LocationRequested(ctx context.Context)
}

// Model is the bubbletea model of the weather screen
type Model struct {
	ctx          context.Context
	ctrl         Controller
	queue        *dispatch.Queue
	outcomes     *Outcomes
	input        textinput.Model
	spinner      spinner.Model
	locateOnInit bool
}

// NewModel creates the screen. queue must be the dispatcher ctrl was built
// with and outcomes its observer; locateOnInit requests the current location
// on start.
func NewModel(ctx context.Context, ctrl Controller, queue *dispatch.Queue, outcomes *Outcomes, locateOnInit bool) Model {
	input := textinput.New()
	input.Placeholder = "Search city"
	input.CharLimit = 100
	input.Width = 30
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:          ctx,
		ctrl:         ctrl,
		queue:        queue,
		outcomes:     outcomes,
		input:        input,
		spinner:      sp,
		locateOnInit: locateOnInit,
	}
}

// nextTask blocks on the dispatcher and hands the task to Update
func (m Model) nextTask() tea.Msg {
	task, err := m.queue.Next(m.ctx)
	if err != nil {
		return queueClosedMsg{}
	}
	return taskMsg(task)
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.nextTask, m.spinner.Tick}
	if m.locateOnInit {
		m.ctrl.LocationRequested(m.ctx)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg()
		// the search field empties once its city is on screen
		if m.outcomes.succeeded {
			m.outcomes.succeeded = false
			m.input.SetValue("")
		}
		return m, m.nextTask

	case queueClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.queue.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			m.ctrl.SearchSubmitted(m.ctx, m.input.Value())
			return m, nil
		case tea.KeyCtrlL:
			m.ctrl.LocationRequested(m.ctx)
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.ctrl.SetSearchText(m.input.Value())
	}
	return m, cmd
}

func (m Model) View() string {
	s := m.ctrl.Screen()

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(RenderCard(s))
	b.WriteString("\n")
	if s.Pending > 0 {
		b.WriteString(m.spinner.View() + mutedStyle.Render(" fetching weather"))
	} else if m.outcomes.err != nil {
		b.WriteString(RenderError(m.outcomes.err))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter: search • ctrl+l: my location • esc: quit"))
	b.WriteString("\n")
	return b.String()
}
