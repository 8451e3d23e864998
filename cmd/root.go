package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cinema-cli/config"
	"cinema-cli/logging"
	"cinema-cli/service"
	"cinema-cli/session"
	"cinema-cli/store"
	"cinema-cli/tui"
)

const appName = "cinema"

// app holds what every command is wired with.
type app struct {
	cfg      config.Config
	logger   *logrus.Logger
	client   *service.Client
	sessions *session.Manager
	out      io.Writer
}

func newApp(cfg config.Config, logger *logrus.Logger, out io.Writer) *app {
	return &app{
		cfg:    cfg,
		logger: logger,
		client: service.NewClient(nil,
			service.WithBaseURL(cfg.APIURL),
			service.WithLogger(logger),
			service.WithUserAgent(cfg.UserAgent),
		),
		sessions: session.NewManager(store.Files{}, logger),
		out:      out,
	}
}

// requireSession returns the stored session, or ErrNotLoggedIn.
func (a *app) requireSession() (session.Context, error) {
	return a.sessions.Require()
}

// authContext carries the session token on outgoing requests.
func (a *app) authContext(ctx context.Context, sess session.Context) context.Context {
	return session.NewContext(ctx, sess)
}

func NewRootCmd(version, commit string) *cobra.Command {
	cfg := config.Load()
	cfg.UserAgent = appName + "-cli/" + version
	a := &app{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Cinema booking client",
		Long:          `Browse shows, book tickets, order food and manage the cinema catalog from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			*a = *newApp(cfg, logging.New(cfg.LogLevel, os.Stderr), cmd.OutOrStdout())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "cinema API base URL (env CINEMA_API_URL)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (env CINEMA_LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive dashboard",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTUI(cfg)
			},
		},
		newVersionCmd(version, commit),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSignupCmd(a),
		newShowsCmd(a),
		newMoviesCmd(a),
		newHallsCmd(a),
		newFoodCmd(a),
		newBookCmd(a),
		newOrderFoodCmd(a),
		newBookingsCmd(a),
		newAdminCmd(a),
	)
	return root
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the cinema CLI",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}

// runTUI starts the dashboard. Logs go to a file since the screen is taken.
func runTUI(cfg config.Config) error {
	logger := logging.Discard()
	if path, err := store.LogPath(); err == nil {
		if fileLogger, closer, err := logging.NewFile(cfg.LogLevel, path); err == nil {
			defer closer.Close()
			logger = fileLogger
		}
	}
	a := newApp(cfg, logger, os.Stdout)
	model := tui.New(tui.Options{
		Client:    a.client,
		Sessions:  a.sessions,
		Logger:    logger,
		ImageBase: cfg.ImageBase(),
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func Execute(version, commit string) {
	if err := NewRootCmd(version, commit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
