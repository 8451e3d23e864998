package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cinema-cli/booking"
	"cinema-cli/model"
	"cinema-cli/pricing"
	"cinema-cli/store"
)

type bookingsMode int

const (
	bookingsBrowse bookingsMode = iota
	bookingsPay
	bookingsLookup
	bookingsResults
)

type showsMsg struct {
	shows []model.Show
	err   error
}

type payResultMsg struct {
	receipt booking.Receipt
	err     error
}

type lookupMsg struct {
	bookings []model.Booking
	err      error
}

type showItem struct {
	show      model.Show
	imageBase string
}

func (s showItem) Title() string {
	return fmt.Sprintf("%s • Hall %s (%s)", s.show.Movie.DisplayTitle(), s.show.Hall.HallNo, s.show.Hall.Category)
}

func (s showItem) Description() string {
	key := s.show.Key()
	parts := []string{fmt.Sprintf("%s %s", key.Date, key.Time)}
	if s.show.Movie.Genre != "" {
		parts = append(parts, s.show.Movie.Genre)
	}
	parts = append(parts, fmt.Sprintf("%s per ticket", s.show.Hall.Price.StringFixed(2)))
	return strings.Join(parts, " • ")
}

func (s showItem) FilterValue() string {
	return strings.Join([]string{s.show.Movie.DisplayTitle(), s.show.Movie.Genre, s.show.Movie.Description}, " ")
}

type bookingItem struct {
	booking model.Booking
}

func (b bookingItem) Title() string {
	title := "Booking"
	if b.booking.Movie != nil {
		title = b.booking.Movie.DisplayTitle()
	}
	return fmt.Sprintf("#%d %s", b.booking.Id, title)
}

func (b bookingItem) Description() string {
	parts := []string{fmt.Sprintf("%s %s", b.booking.Date, b.booking.Time), fmt.Sprintf("%d tickets", b.booking.TicketQuantity)}
	if b.booking.Hall != nil {
		parts = append(parts, "Hall "+b.booking.Hall.HallNo)
	}
	if b.booking.Status != "" {
		parts = append(parts, b.booking.Status)
	}
	if b.booking.Payment != nil {
		parts = append(parts, "paid "+b.booking.Payment.Amount.StringFixed(2))
	}
	return strings.Join(parts, " • ")
}

func (b bookingItem) FilterValue() string {
	return b.Title()
}

// bookingsTab lists shows, books tickets and searches existing bookings.
type bookingsTab struct {
	deps   deps
	flow   *booking.Orchestrator
	mode   bookingsMode
	paying bool

	shows   list.Model
	results list.Model
	pay     payForm
	lookup  []textinput.Model
	focus   int
	spinner spinner.Model
	loading bool
	err     error
}

func newBookingsTab(d deps) tab {
	lookup := make([]textinput.Model, 2)
	for i, placeholder := range []string{"Name", "Phone number"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		lookup[i] = ti
	}
	return &bookingsTab{
		deps:    d,
		flow:    booking.NewOrchestrator(d.client, booking.WithLogger(d.logger), booking.WithClock(d.now)),
		shows:   newList("Shows"),
		results: newList("Bookings"),
		lookup:  lookup,
		spinner: newSpinner(),
		loading: true,
	}
}

func (t *bookingsTab) Title() string {
	return "Bookings"
}

func (t *bookingsTab) Capturing() bool {
	return t.mode == bookingsPay || t.mode == bookingsLookup || t.shows.SettingFilter() || t.results.SettingFilter()
}

func (t *bookingsTab) Init() tea.Cmd {
	return tea.Batch(t.fetchShowsCmd(), t.spinner.Tick)
}

func (t *bookingsTab) Update(msg tea.Msg) (tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 10
		if h < 6 {
			h = 6
		}
		t.shows.SetSize(msg.Width, h)
		t.results.SetSize(msg.Width, h)
		return t, nil

	case spinner.TickMsg:
		if !t.loading && !t.paying {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd

	case showsMsg:
		t.loading = false
		if msg.err != nil {
			t.err = fmt.Errorf("failed to load shows: %w", msg.err)
			return t, nil
		}
		t.err = nil
		t.flow.SetListing(msg.shows)
		t.setShowItems(msg.shows)
		if t.mode == bookingsPay && t.flow.State() != booking.StateConfirming && !t.paying {
			t.mode = bookingsBrowse
			return t, errStatusCmd(booking.ErrShowUnavailable)
		}
		return t, nil

	case payResultMsg:
		if !t.paying {
			return t, nil
		}
		t.paying = false
		if msg.err != nil {
			t.mode = t.modeAfterFailure()
			return t, tea.Batch(errStatusCmd(msg.err), t.fetchShowsCmd())
		}
		t.mode = bookingsBrowse
		return t, tea.Batch(statusCmd(msg.receipt.Message(), true), t.fetchShowsCmd())

	case lookupMsg:
		t.loading = false
		if msg.err != nil {
			return t, errStatusCmd(fmt.Errorf("failed to search bookings: %w", msg.err))
		}
		items := make([]list.Item, 0, len(msg.bookings))
		for _, b := range msg.bookings {
			items = append(items, bookingItem{booking: b})
		}
		t.results.SetItems(items)
		t.mode = bookingsResults
		if len(items) == 0 {
			return t, statusCmd("No bookings found.", false)
		}
		return t, nil

	case tea.KeyMsg:
		return t.handleKey(msg)
	}
	return t, nil
}

// modeAfterFailure keeps the card form open when the booking itself was
// rejected, since the flow is still waiting for payment details.
func (t *bookingsTab) modeAfterFailure() bookingsMode {
	if t.flow.State() == booking.StateConfirming {
		return bookingsPay
	}
	return bookingsBrowse
}

func (t *bookingsTab) handleKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	if t.paying {
		return t, nil
	}
	switch t.mode {
	case bookingsPay:
		return t.handlePayKey(msg)
	case bookingsLookup:
		return t.handleLookupKey(msg)
	case bookingsResults:
		if msg.String() == "esc" && !t.results.SettingFilter() && !t.results.IsFiltered() {
			t.mode = bookingsBrowse
			return t, nil
		}
		var cmd tea.Cmd
		t.results, cmd = t.results.Update(msg)
		return t, cmd
	}

	if t.shows.SettingFilter() {
		var cmd tea.Cmd
		t.shows, cmd = t.shows.Update(msg)
		return t, cmd
	}

	switch msg.String() {
	case "+", "=", "right":
		return t, errStatusCmd(t.flow.SetQuantity(t.flow.Draft().TicketQuantity + 1))
	case "-", "left":
		return t, errStatusCmd(t.flow.SetQuantity(t.flow.Draft().TicketQuantity - 1))
	case "ctrl+r":
		t.loading = true
		return t, tea.Batch(t.fetchShowsCmd(), t.spinner.Tick)
	case "s":
		t.mode = bookingsLookup
		t.focus = 0
		t.lookup[0].Focus()
		t.lookup[1].Blur()
		return t, textinput.Blink
	case "esc":
		if t.shows.IsFiltered() {
			t.shows.ResetFilter()
			return t, nil
		}
		t.flow.Reset()
		return t, nil
	case "enter":
		item, ok := t.shows.SelectedItem().(showItem)
		if !ok {
			return t, errStatusCmd(booking.ErrNoShowSelected)
		}
		if err := t.flow.Select(item.show.Key()); err != nil {
			return t, errStatusCmd(err)
		}
		if err := t.flow.Confirm(t.deps.sess); err != nil {
			return t, errStatusCmd(err)
		}
		t.pay = newPayForm()
		t.mode = bookingsPay
		return t, textinput.Blink
	}

	var cmd tea.Cmd
	t.shows, cmd = t.shows.Update(msg)
	return t, cmd
}

func (t *bookingsTab) handlePayKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	if msg.String() == "esc" {
		t.flow.Cancel()
		t.mode = bookingsBrowse
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

func (t *bookingsTab) handleLookupKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.mode = bookingsBrowse
		return t, nil
	case "tab", "shift+tab", "up", "down":
		t.lookup[t.focus].Blur()
		t.focus = 1 - t.focus
		t.lookup[t.focus].Focus()
		return t, nil
	case "enter":
		lookup := model.BookingLookup{
			Name:  strings.TrimSpace(t.lookup[0].Value()),
			Phone: strings.TrimSpace(t.lookup[1].Value()),
		}
		if lookup.Name == "" && lookup.Phone == "" {
			return t, errStatusCmd(errors.New("please enter either name or phone number to search"))
		}
		t.loading = true
		return t, tea.Batch(t.lookupCmd(lookup), t.spinner.Tick)
	}
	var cmd tea.Cmd
	t.lookup[t.focus], cmd = t.lookup[t.focus].Update(msg)
	return t, cmd
}

func (t *bookingsTab) setShowItems(shows []model.Show) {
	items := make([]list.Item, 0, len(shows))
	for _, show := range shows {
		items = append(items, showItem{show: show, imageBase: t.deps.imageBase})
	}
	t.shows.SetItems(items)
}

func (t *bookingsTab) View() string {
	if t.paying {
		return fmt.Sprintf("%s Processing payment...\n\n%s", t.spinner.View(), hint("Please wait, the booking is being settled."))
	}
	switch t.mode {
	case bookingsPay:
		return t.payView()
	case bookingsLookup:
		return t.lookupView()
	case bookingsResults:
		return t.results.View() + "\n" + hint("esc back • / filter")
	}

	if t.loading && len(t.shows.Items()) == 0 {
		return fmt.Sprintf("%s Loading shows", t.spinner.View())
	}
	var b strings.Builder
	if t.err != nil {
		b.WriteString(errorStyle.Render(t.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(t.shows.View())
	b.WriteString("\n")
	b.WriteString(t.draftLine())
	b.WriteString("\n")
	b.WriteString(hint("enter book • +/- tickets • / search • s find bookings • ctrl+r refresh"))
	return b.String()
}

func (t *bookingsTab) draftLine() string {
	draft := t.flow.Draft()
	line := fmt.Sprintf("Tickets: %d", draft.TicketQuantity)
	if item, ok := t.shows.SelectedItem().(showItem); ok {
		total := pricing.TicketTotal(item.show, draft.TicketQuantity)
		line += fmt.Sprintf(" • Total: %s", total.StringFixed(2))
		if poster := model.ResolveImageURL(item.imageBase, item.show.Movie.ImageUrl); poster != "" {
			line += "\n" + hint("Poster: "+poster)
		}
	}
	return line
}

func (t *bookingsTab) payView() string {
	show, _ := t.flow.Selected()
	quote, _ := t.flow.Quote()
	draft := t.flow.Draft()
	header := titleStyle.Render("Payment") + "\n" +
		fmt.Sprintf("%s • %s %s • %d tickets • Total: %s",
			show.Movie.DisplayTitle(), draft.Key.Date, draft.Key.Time, draft.TicketQuantity, quote.Total.StringFixed(2))
	return panelStyle.Render(header + "\n\n" + t.pay.View())
}

func (t *bookingsTab) lookupView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Find bookings"))
	b.WriteString("\n\n")
	for _, input := range t.lookup {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	if t.loading {
		b.WriteString("\n" + t.spinner.View() + " Searching")
	}
	b.WriteString("\n" + hint("tab switch field • enter search • esc back"))
	if recent, err := store.LoadRecentLookups(); err == nil && len(recent) > 0 {
		b.WriteString("\n\n" + labelStyle.Render("Recent searches"))
		for _, r := range recent {
			b.WriteString("\n" + hint(strings.TrimSpace(r.Name+" "+r.Phone)))
		}
	}
	return b.String()
}

func (t *bookingsTab) fetchShowsCmd() tea.Cmd {
	client := t.deps.client
	return func() tea.Msg {
		shows, err := client.GetShows(context.Background())
		return showsMsg{shows: shows, err: err}
	}
}

func (t *bookingsTab) payCmd() tea.Cmd {
	flow := t.flow
	sess := t.deps.sess
	return func() tea.Msg {
		receipt, err := flow.Pay(context.Background(), sess)
		return payResultMsg{receipt: receipt, err: err}
	}
}

func (t *bookingsTab) lookupCmd(lookup model.BookingLookup) tea.Cmd {
	client := t.deps.client
	logger := t.deps.logger
	return func() tea.Msg {
		bookings, err := client.SearchBookings(context.Background(), lookup)
		if err == nil {
			if rememberErr := store.RememberLookup(lookup); rememberErr != nil {
				logger.WithError(rememberErr).Debug("could not save lookup history")
			}
		}
		return lookupMsg{bookings: bookings, err: err}
	}
}
