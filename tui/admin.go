package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type adminMode int

const (
	adminList adminMode = iota
	adminForm
	adminConfirmDelete
)

// record is a row of an admin listing.
type record interface {
	list.Item
	ID() int
	// Values returns the form values used to prefill an edit.
	Values() []string
}

// resource describes one admin collection. update is nil when the backend
// has no edit endpoint for it.
type resource struct {
	name   string
	fields []string
	load   func(ctx context.Context) ([]record, string, error)
	create func(ctx context.Context, values []string) error
	update func(ctx context.Context, id int, values []string) error
	remove func(ctx context.Context, id int) error
}

type recordsMsg struct {
	records []record
	note    string
	err     error
}

type savedMsg struct {
	text string
	err  error
}

type adminTab struct {
	res     resource
	mode    adminMode
	items   list.Model
	inputs  []textinput.Model
	focus   int
	editing int
	target  record
	note    string
	spinner spinner.Model
	loading bool
	saving  bool
	err     error
}

func newAdminTab(res resource) *adminTab {
	return &adminTab{
		res:     res,
		items:   newList(res.name),
		spinner: newSpinner(),
		loading: true,
	}
}

func (t *adminTab) Title() string {
	return t.res.name
}

func (t *adminTab) Capturing() bool {
	return t.mode != adminList || t.items.SettingFilter()
}

func (t *adminTab) Init() tea.Cmd {
	return tea.Batch(t.loadCmd(), t.spinner.Tick)
}

func (t *adminTab) Update(msg tea.Msg) (tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 10
		if h < 6 {
			h = 6
		}
		t.items.SetSize(msg.Width, h)
		return t, nil

	case spinner.TickMsg:
		if !t.loading && !t.saving {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd

	case recordsMsg:
		t.loading = false
		if msg.err != nil {
			t.err = fmt.Errorf("failed to load %s: %w", strings.ToLower(t.res.name), msg.err)
			return t, nil
		}
		t.err = nil
		t.note = msg.note
		items := make([]list.Item, 0, len(msg.records))
		for _, r := range msg.records {
			items = append(items, r)
		}
		t.items.SetItems(items)
		return t, nil

	case savedMsg:
		t.saving = false
		if msg.err != nil {
			return t, errStatusCmd(msg.err)
		}
		t.mode = adminList
		t.loading = true
		return t, tea.Batch(statusCmd(msg.text, true), t.loadCmd(), t.spinner.Tick)

	case tea.KeyMsg:
		if t.saving {
			return t, nil
		}
		switch t.mode {
		case adminForm:
			return t.handleFormKey(msg)
		case adminConfirmDelete:
			return t.handleDeleteKey(msg)
		}
		return t.handleListKey(msg)
	}
	return t, nil
}

func (t *adminTab) handleListKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	if t.items.SettingFilter() {
		var cmd tea.Cmd
		t.items, cmd = t.items.Update(msg)
		return t, cmd
	}
	switch msg.String() {
	case "a":
		t.openForm(nil)
		return t, textinput.Blink
	case "e", "enter":
		if t.res.update == nil {
			return t, nil
		}
		if r, ok := t.items.SelectedItem().(record); ok {
			t.openForm(r)
			return t, textinput.Blink
		}
		return t, nil
	case "d", "delete":
		if r, ok := t.items.SelectedItem().(record); ok {
			t.target = r
			t.mode = adminConfirmDelete
		}
		return t, nil
	case "ctrl+r":
		t.loading = true
		return t, tea.Batch(t.loadCmd(), t.spinner.Tick)
	case "esc":
		if t.items.IsFiltered() {
			t.items.ResetFilter()
		}
		return t, nil
	}
	var cmd tea.Cmd
	t.items, cmd = t.items.Update(msg)
	return t, cmd
}

func (t *adminTab) handleDeleteKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		t.saving = true
		target := t.target
		remove := t.res.remove
		name := t.res.name
		return t, tea.Batch(func() tea.Msg {
			if err := remove(context.Background(), target.ID()); err != nil {
				return savedMsg{err: fmt.Errorf("error deleting %s: %w", singular(name), err)}
			}
			return savedMsg{text: fmt.Sprintf("%s deleted successfully.", capitalize(singular(name)))}
		}, t.spinner.Tick)
	default:
		t.mode = adminList
		return t, nil
	}
}

func (t *adminTab) handleFormKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.mode = adminList
		return t, nil
	case "tab", "down":
		t.moveFocus(1)
		return t, nil
	case "shift+tab", "up":
		t.moveFocus(-1)
		return t, nil
	case "enter":
		if t.focus < len(t.inputs)-1 {
			t.moveFocus(1)
			return t, nil
		}
		return t, t.submit()
	}
	var cmd tea.Cmd
	t.inputs[t.focus], cmd = t.inputs[t.focus].Update(msg)
	return t, cmd
}

func (t *adminTab) submit() tea.Cmd {
	values := make([]string, len(t.inputs))
	for i, input := range t.inputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	t.saving = true
	id := t.editing
	res := t.res
	name := singular(res.name)
	return tea.Batch(func() tea.Msg {
		ctx := context.Background()
		if id > 0 {
			if err := res.update(ctx, id, values); err != nil {
				return savedMsg{err: fmt.Errorf("error updating %s: %w", name, err)}
			}
			return savedMsg{text: fmt.Sprintf("%s updated successfully.", capitalize(name))}
		}
		if err := res.create(ctx, values); err != nil {
			return savedMsg{err: fmt.Errorf("error adding %s: %w", name, err)}
		}
		return savedMsg{text: fmt.Sprintf("%s added successfully.", capitalize(name))}
	}, t.spinner.Tick)
}

func (t *adminTab) openForm(r record) {
	t.inputs = make([]textinput.Model, len(t.res.fields))
	var values []string
	t.editing = 0
	if r != nil {
		t.editing = r.ID()
		values = r.Values()
	}
	for i, field := range t.res.fields {
		ti := textinput.New()
		ti.Placeholder = field
		if i < len(values) {
			ti.SetValue(values[i])
		}
		t.inputs[i] = ti
	}
	t.focus = 0
	t.inputs[0].Focus()
	t.mode = adminForm
}

func (t *adminTab) moveFocus(delta int) {
	t.inputs[t.focus].Blur()
	t.focus = (t.focus + delta + len(t.inputs)) % len(t.inputs)
	t.inputs[t.focus].Focus()
}

func (t *adminTab) View() string {
	if t.saving {
		return fmt.Sprintf("%s Saving...", t.spinner.View())
	}
	switch t.mode {
	case adminForm:
		return t.formView()
	case adminConfirmDelete:
		return panelStyle.Render(fmt.Sprintf("Delete %s?\n\n%s", t.target.FilterValue(), hint("y confirm • any other key cancels")))
	}
	if t.loading && len(t.items.Items()) == 0 {
		return fmt.Sprintf("%s Loading %s", t.spinner.View(), strings.ToLower(t.res.name))
	}

	var b strings.Builder
	if t.err != nil {
		b.WriteString(errorStyle.Render(t.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(t.items.View())
	b.WriteString("\n")
	keys := "a add • d delete • / search • ctrl+r refresh"
	if t.res.update != nil {
		keys = "a add • e edit • d delete • / search • ctrl+r refresh"
	}
	b.WriteString(hint(keys))
	return b.String()
}

func (t *adminTab) formView() string {
	verb := "Add"
	if t.editing > 0 {
		verb = "Edit"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", verb, singular(t.res.name))))
	b.WriteString("\n\n")
	for i, input := range t.inputs {
		b.WriteString(labelStyle.Render(t.res.fields[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}
	if t.note != "" {
		b.WriteString(hint(t.note))
		b.WriteString("\n\n")
	}
	b.WriteString(hint("tab next field • enter save • esc cancel"))
	return panelStyle.Render(b.String())
}

func (t *adminTab) loadCmd() tea.Cmd {
	load := t.res.load
	return func() tea.Msg {
		records, note, err := load(context.Background())
		return recordsMsg{records: records, note: note, err: err}
	}
}

func singular(name string) string {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, "s") {
		return strings.TrimSuffix(name, "s")
	}
	return name
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
