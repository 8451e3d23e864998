package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const successTTL = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	activeTab    = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	failedTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// statusMsg is shown on the dashboard status line. Success messages clear
// themselves after successTTL.
type statusMsg struct {
	text    string
	success bool
}

type clearStatusMsg struct {
	seq int
}

func statusCmd(text string, success bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, success: success}
	}
}

func errStatusCmd(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return statusCmd(err.Error(), false)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = substringFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func newSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	return sp
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

// substringFilter keeps the targets containing term, ignoring case.
func substringFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(strings.TrimSpace(term))
	var ranks []list.Rank
	for i, target := range targets {
		lower := strings.ToLower(target)
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		matched := make([]int, 0, len(term))
		for j := range []rune(term) {
			matched = append(matched, idx+j)
		}
		ranks = append(ranks, list.Rank{Index: i, MatchedIndexes: matched})
	}
	return ranks
}
