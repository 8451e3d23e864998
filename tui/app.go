package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"cinema-cli/model"
	"cinema-cli/service"
	"cinema-cli/session"
)

type appState int

const (
	stateLogin appState = iota
	stateDashboard
)

type Options struct {
	Client    *service.Client
	Sessions  *session.Manager
	Logger    logrus.FieldLogger
	ImageBase string
}

// deps is what every tab is built from.
type deps struct {
	client    *service.Client
	sess      session.Context
	logger    logrus.FieldLogger
	imageBase string
	now       func() time.Time
}

type appModel struct {
	client    *service.Client
	sessions  *session.Manager
	logger    logrus.FieldLogger
	imageBase string

	state appState
	sess  session.Context

	width  int
	height int

	login      []textinput.Model
	loginFocus int
	loggingIn  bool
	loginErr   string

	regions []*region
	active  int

	status    string
	statusOK  bool
	statusSeq int

	spinner spinner.Model
}

type loginMsg struct {
	sess session.Context
	err  error
}

type logoutMsg struct{}

func New(opts Options) tea.Model {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	client := opts.Client
	if client == nil {
		client = service.NewClient(nil, service.WithLogger(logger))
	}
	imageBase := opts.ImageBase
	if imageBase == "" {
		imageBase = client.BaseURL()
	}

	m := &appModel{
		client:    client,
		sessions:  opts.Sessions,
		logger:    logger,
		imageBase: imageBase,
		state:     stateLogin,
		spinner:   newSpinner(),
	}
	m.login = newLoginInputs()

	if m.sessions != nil {
		sess, err := m.sessions.Current()
		if err != nil {
			logger.WithError(err).Warn("could not read stored session")
		} else if !sess.IsZero() {
			m.sess = sess
			m.state = stateDashboard
			m.regions = m.buildRegions()
		}
	}
	return m
}

func newLoginInputs() []textinput.Model {
	name := textinput.New()
	name.Placeholder = "Name"
	name.Focus()
	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	return []textinput.Model{name, password}
}

func (m *appModel) Init() tea.Cmd {
	if m.state == stateDashboard {
		return m.startRegions()
	}
	return textinput.Blink
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmds []tea.Cmd
		for _, r := range m.regions {
			cmds = append(cmds, r.Update(m.regionSize()))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == stateLogin {
			return m.handleLoginKey(msg)
		}
		return m.handleDashboardKey(msg)

	case spinner.TickMsg:
		if !m.loggingIn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case regionMsg:
		if msg.region < 0 || msg.region >= len(m.regions) {
			return m, nil
		}
		return m, m.regions[msg.region].Update(msg.msg)

	case statusMsg:
		m.status = msg.text
		m.statusOK = msg.success
		m.statusSeq++
		if !msg.success {
			return m, nil
		}
		seq := m.statusSeq
		return m, tea.Tick(successTTL, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case loginMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.loginErr = service.MessageOf(msg.err, "login failed")
			return m, nil
		}
		if m.sessions != nil {
			if err := m.sessions.Start(msg.sess); err != nil {
				m.logger.WithError(err).Warn("could not save session")
			}
		}
		m.sess = msg.sess
		m.loginErr = ""
		m.login = newLoginInputs()
		m.state = stateDashboard
		m.active = 0
		m.regions = m.buildRegions()
		return m, tea.Batch(m.startRegions(), statusCmd(fmt.Sprintf("Welcome, %s!", msg.sess.Name), true))

	case logoutMsg:
		m.sess = session.Context{}
		m.regions = nil
		m.active = 0
		m.status = ""
		m.state = stateLogin
		return m, textinput.Blink
	}
	return m, nil
}

func (m *appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.login[m.loginFocus].Blur()
		m.loginFocus = 1 - m.loginFocus
		m.login[m.loginFocus].Focus()
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.login[0].Blur()
			m.loginFocus = 1
			m.login[1].Focus()
			return m, nil
		}
		req := model.LoginRequest{
			Name:     strings.TrimSpace(m.login[0].Value()),
			Password: m.login[1].Value(),
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, tea.Batch(m.loginCmd(req), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.login[m.loginFocus], cmd = m.login[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *appModel) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+o" {
		return m, m.logoutCmd()
	}
	if len(m.regions) == 0 {
		return m, nil
	}
	current := m.regions[m.active]
	if !current.Capturing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.active = (m.active + 1) % len(m.regions)
			return m, nil
		case "shift+tab":
			m.active = (m.active - 1 + len(m.regions)) % len(m.regions)
			return m, nil
		}
		if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			if idx := int(msg.Runes[0] - '1'); idx < len(m.regions) {
				m.active = idx
				return m, nil
			}
		}
	}
	return m, current.Update(msg)
}

type section struct {
	name    string
	factory func() tab
}

// buildRegions lays out the dashboard for the session's role.
func (m *appModel) buildRegions() []*region {
	d := deps{
		client:    m.client,
		sess:      m.sess,
		logger:    m.logger.WithField("user_id", m.sess.UserId),
		imageBase: m.imageBase,
		now:       time.Now,
	}
	var sections []section
	if m.sess.IsAdmin() {
		sections = append(sections,
			section{"Halls", func() tab { return newAdminTab(hallsResource(d.client)) }},
			section{"Movies", func() tab { return newAdminTab(moviesResource(d.client, d.imageBase)) }},
			section{"Shows", func() tab { return newAdminTab(showsResource(d.client)) }},
			section{"Food", func() tab { return newAdminTab(inventoryResource(d.client)) }},
		)
	}
	sections = append(sections,
		section{"Bookings", func() tab { return newBookingsTab(d) }},
		section{"Food Orders", func() tab { return newFoodTab(d) }},
	)

	regions := make([]*region, 0, len(sections))
	for i, s := range sections {
		regions = append(regions, newRegion(i, s.name, s.factory, m.logger))
	}
	return regions
}

func (m *appModel) startRegions() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.regions)*2)
	for _, r := range m.regions {
		cmds = append(cmds, r.Start())
		if m.width > 0 {
			cmds = append(cmds, r.Update(m.regionSize()))
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) regionSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
}

func (m *appModel) View() string {
	if m.state == stateLogin {
		return m.loginView()
	}
	return m.dashboardView()
}

func (m *appModel) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cinema"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Log in"))
	b.WriteString("\n\n")
	for _, input := range m.login {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	if m.loggingIn {
		b.WriteString("\n" + m.spinner.View() + " Logging in")
	}
	if m.loginErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.loginErr))
	}
	b.WriteString("\n\n" + hint("tab switch field • enter log in • esc quit"))

	panel := panelStyle.Render(b.String())
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func (m *appModel) dashboardView() string {
	title := titleStyle.Render("Cinema")
	who := fmt.Sprintf("%s • %s", m.sess.Name, m.sess.Role)
	header := title + "  " + hint(who)

	tabs := make([]string, 0, len(m.regions))
	for i, r := range m.regions {
		label := fmt.Sprintf("%d %s", i+1, r.Title())
		switch {
		case i == m.active:
			tabs = append(tabs, activeTab.Render(label))
		case r.Failed():
			tabs = append(tabs, failedTab.Render(label+" !"))
		default:
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	body := ""
	if len(m.regions) > 0 {
		body = m.regions[m.active].View()
	}

	status := ""
	if m.status != "" {
		if m.statusOK {
			status = successStyle.Render(m.status)
		} else {
			status = errorStyle.Render(m.status)
		}
	}
	footer := hint("tab/1-9 switch section • ctrl+o log out • q quit")
	return strings.Join([]string{header, tabBar, "", body, status, footer}, "\n")
}

func (m *appModel) loginCmd(req model.LoginRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Login(context.Background(), req)
		if err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{sess: session.FromLogin(res)}
	}
}

// logoutCmd tells the backend best-effort and always drops the local session.
func (m *appModel) logoutCmd() tea.Cmd {
	client := m.client
	sessions := m.sessions
	logger := m.logger
	sess := m.sess
	return func() tea.Msg {
		ctx := session.NewContext(context.Background(), sess)
		if err := client.Logout(ctx); err != nil {
			logger.WithError(err).Info("logout request failed")
		}
		if sessions != nil {
			if err := sessions.End(); err != nil {
				logger.WithError(err).Warn("could not clear session")
			}
		}
		return logoutMsg{}
	}
}
