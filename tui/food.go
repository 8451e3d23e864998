package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cinema-cli/booking"
	"cinema-cli/model"
)

type inventoryMsg struct {
	items []model.FoodItem
	err   error
}

type foodItem struct {
	item     model.FoodItem
	selected int
}

func (f foodItem) Title() string {
	if f.selected > 0 {
		return fmt.Sprintf("%s ×%d", f.item.Item, f.selected)
	}
	return f.item.Item
}

func (f foodItem) Description() string {
	return fmt.Sprintf("%s each • %d in stock", f.item.Price.StringFixed(2), f.item.Quantity)
}

func (f foodItem) FilterValue() string {
	return f.item.Item
}

type foodTab struct {
	deps    deps
	flow    *booking.FoodOrderer
	items   list.Model
	pay     payForm
	paying  bool
	paymode bool
	spinner spinner.Model
	loading bool
	err     error
}

func newFoodTab(d deps) tab {
	return &foodTab{
		deps:    d,
		flow:    booking.NewFoodOrderer(d.client, booking.WithLogger(d.logger), booking.WithClock(d.now)),
		items:   newList("Food & drinks"),
		spinner: newSpinner(),
		loading: true,
	}
}

func (t *foodTab) Title() string {
	return "Food Orders"
}

func (t *foodTab) Capturing() bool {
	return t.paymode || t.items.SettingFilter()
}

func (t *foodTab) Init() tea.Cmd {
	return tea.Batch(t.fetchInventoryCmd(), t.spinner.Tick)
}

func (t *foodTab) Update(msg tea.Msg) (tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 12
		if h < 6 {
			h = 6
		}
		t.items.SetSize(msg.Width, h)
		return t, nil

	case spinner.TickMsg:
		if !t.loading && !t.paying {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd

	case inventoryMsg:
		t.loading = false
		if msg.err != nil {
			t.err = fmt.Errorf("could not load food items: %w", msg.err)
			return t, nil
		}
		t.err = nil
		t.flow.SetInventory(msg.items)
		t.refreshItems()
		return t, nil

	case payResultMsg:
		if !t.paying {
			return t, nil
		}
		t.paying = false
		t.paymode = t.flow.State() == booking.StateConfirming
		if msg.err != nil {
			return t, tea.Batch(errStatusCmd(msg.err), t.fetchInventoryCmd())
		}
		t.refreshItems()
		return t, tea.Batch(statusCmd(msg.receipt.Message(), true), t.fetchInventoryCmd())

	case tea.KeyMsg:
		return t.handleKey(msg)
	}
	return t, nil
}

func (t *foodTab) handleKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	if t.paying {
		return t, nil
	}
	if t.paymode {
		if msg.String() == "esc" {
			t.flow.Cancel()
			t.paymode = false
			return t, nil
		}
		form, cmd, submit := t.pay.Update(msg, t.flow)
		t.pay = form
		if !submit {
			return t, cmd
		}
		t.paying = true
		return t, tea.Batch(t.payCmd(), t.spinner.Tick)
	}

	if t.items.SettingFilter() {
		var cmd tea.Cmd
		t.items, cmd = t.items.Update(msg)
		return t, cmd
	}

	switch msg.String() {
	case "+", "=", "right":
		return t, t.adjust(1)
	case "-", "left":
		return t, t.adjust(-1)
	case "ctrl+r":
		t.loading = true
		return t, tea.Batch(t.fetchInventoryCmd(), t.spinner.Tick)
	case "esc":
		if t.items.IsFiltered() {
			t.items.ResetFilter()
			return t, nil
		}
		t.flow.Reset()
		t.refreshItems()
		return t, nil
	case "enter":
		if err := t.flow.Confirm(t.deps.sess); err != nil {
			return t, errStatusCmd(err)
		}
		t.pay = newPayForm()
		t.paymode = true
		return t, textinput.Blink
	}

	var cmd tea.Cmd
	t.items, cmd = t.items.Update(msg)
	return t, cmd
}

func (t *foodTab) adjust(delta int) tea.Cmd {
	item, ok := t.items.SelectedItem().(foodItem)
	if !ok {
		return nil
	}
	if err := t.flow.SetQuantity(item.item.Id, t.flow.Quantity(item.item.Id)+delta); err != nil {
		return errStatusCmd(err)
	}
	t.refreshItems()
	return nil
}

func (t *foodTab) refreshItems() {
	inventory := t.flow.Inventory()
	items := make([]list.Item, 0, len(inventory))
	for _, item := range inventory {
		items = append(items, foodItem{item: item, selected: t.flow.Quantity(item.Id)})
	}
	t.items.SetItems(items)
}

func (t *foodTab) View() string {
	if t.paying {
		return fmt.Sprintf("%s Processing payment...", t.spinner.View())
	}
	if t.paymode {
		return panelStyle.Render(titleStyle.Render("Payment") + "\n" + t.summary() + "\n\n" + t.pay.View())
	}
	if t.loading && len(t.items.Items()) == 0 {
		return fmt.Sprintf("%s Loading food items", t.spinner.View())
	}

	var b strings.Builder
	if t.err != nil {
		b.WriteString(errorStyle.Render(t.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(t.items.View())
	b.WriteString("\n")
	b.WriteString(t.summary())
	b.WriteString("\n")
	b.WriteString(hint("+/- quantity • enter order and pay • esc clear • / search • ctrl+r refresh"))
	return b.String()
}

func (t *foodTab) summary() string {
	lines := t.flow.Lines()
	if len(lines) == 0 {
		return hint("Nothing selected.")
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s ×%d = %s", line.Item.Item, line.Quantity, line.Subtotal.StringFixed(2)))
	}
	return strings.Join(parts, "\n") + "\n" + labelStyle.Render("Total: "+t.flow.Quote().Total.StringFixed(2))
}

func (t *foodTab) fetchInventoryCmd() tea.Cmd {
	client := t.deps.client
	return func() tea.Msg {
		items, err := client.GetFoodInventory(context.Background())
		return inventoryMsg{items: items, err: err}
	}
}

func (t *foodTab) payCmd() tea.Cmd {
	flow := t.flow
	sess := t.deps.sess
	return func() tea.Msg {
		receipt, err := flow.Pay(context.Background(), sess)
		return payResultMsg{receipt: receipt, err: err}
	}
}
