package tui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// tab is one dashboard section.
type tab interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tab, tea.Cmd)
	View() string
	// Capturing reports whether the tab is taking free text, in which case
	// the dashboard leaves single-letter keys alone.
	Capturing() bool
}

// regionMsg carries a message produced by a tab's command back to that tab.
type regionMsg struct {
	region int
	msg    tea.Msg
}

// region runs one tab and contains its failures: a panic while updating or
// rendering marks the region failed and the rest of the dashboard keeps going.
type region struct {
	index   int
	name    string
	factory func() tab
	current tab
	err     error
	logger  logrus.FieldLogger
}

func newRegion(index int, name string, factory func() tab, logger logrus.FieldLogger) *region {
	return &region{
		index:   index,
		name:    name,
		factory: factory,
		logger:  logger.WithField("region", name),
	}
}

func (r *region) Title() string {
	return r.name
}

func (r *region) Failed() bool {
	return r.err != nil
}

func (r *region) Capturing() bool {
	if r.current == nil || r.err != nil {
		return false
	}
	return r.guard(func() bool { return r.current.Capturing() })
}

// Start builds a fresh tab, discarding any previous one.
func (r *region) Start() tea.Cmd {
	r.err = nil
	var cmd tea.Cmd
	r.run(func() {
		r.current = r.factory()
		cmd = r.current.Init()
	})
	return r.tag(cmd)
}

func (r *region) Update(msg tea.Msg) tea.Cmd {
	if r.err != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" {
			r.logger.Info("restarting region")
			return r.Start()
		}
		return nil
	}
	if r.current == nil {
		return nil
	}
	var cmd tea.Cmd
	r.run(func() {
		next, c := r.current.Update(msg)
		r.current = next
		cmd = c
	})
	return r.tag(cmd)
}

func (r *region) View() string {
	if r.err == nil && r.current != nil {
		var view string
		r.run(func() { view = r.current.View() })
		if r.err == nil {
			return view
		}
	}
	if r.err == nil {
		return ""
	}
	return r.errorView()
}

func (r *region) errorView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).
		Render(fmt.Sprintf("Something went wrong in %s.", r.name))
	return title + "\n\n" + errorStyle.Render(r.err.Error()) + "\n\n" + hint("Press r to retry this section.")
}

func (r *region) run(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.err = fmt.Errorf("%v", rec)
			r.current = nil
			r.logger.WithField("stack", string(debug.Stack())).Errorf("region panicked: %v", rec)
		}
	}()
	fn()
}

func (r *region) guard(fn func() bool) (ok bool) {
	r.run(func() { ok = fn() })
	return ok
}

func (r *region) tag(cmd tea.Cmd) tea.Cmd {
	return tagCmd(r.index, cmd)
}

// tagCmd wraps the messages cmd produces so they are routed back to region.
// Batches are unwrapped so the runtime still executes their commands.
func tagCmd(index int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			tagged := make(tea.BatchMsg, 0, len(msg))
			for _, inner := range msg {
				tagged = append(tagged, tagCmd(index, inner))
			}
			return tagged
		case statusMsg, tea.QuitMsg:
			return msg
		default:
			return regionMsg{region: index, msg: msg}
		}
	}
}
