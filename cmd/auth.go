package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cinema-cli/model"
	"cinema-cli/service"
	"cinema-cli/session"
)

const duplicateAccountMessage = "email or phone number already exists"

func newLoginCmd(a *app) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if strings.TrimSpace(name) == "" {
				if name, err = promptText("Name"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret("Password"); err != nil {
					return err
				}
			}
			res, err := a.client.Login(cmd.Context(), model.LoginRequest{Name: strings.TrimSpace(name), Password: password})
			if err != nil {
				return errors.New(service.MessageOf(err, "login failed"))
			}
			sess := session.FromLogin(res)
			if err := a.sessions.Start(sess); err != nil {
				return fmt.Errorf("could not save session: %w", err)
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s).\n", sess.Name, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Current()
			if err != nil {
				return err
			}
			if !sess.IsZero() {
				if err := a.client.Logout(a.authContext(cmd.Context(), sess)); err != nil {
					a.logger.WithError(err).Info("logout request failed")
				}
			}
			if err := a.sessions.End(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (id %d, %s)", sess.Name, sess.UserId, sess.Role)
			if exp, ok := sess.ExpiresAt(); ok {
				fmt.Fprintf(a.out, ", token expires %s", exp.Local().Format(time.DateTime))
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

type signupFlags struct {
	name, email, phone, password string
}

func (f *signupFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "account name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number, 11 digits")
	cmd.Flags().StringVar(&f.password, "password", "", "password (prompted when empty)")
}

func (f *signupFlags) request(roleID int) (model.SignupRequest, error) {
	if f.password == "" {
		password, err := promptSecret("Password")
		if err != nil {
			return model.SignupRequest{}, err
		}
		f.password = password
	}
	req := model.SignupRequest{
		Name:     strings.TrimSpace(f.name),
		Email:    strings.TrimSpace(f.email),
		PhoneNo:  strings.TrimSpace(f.phone),
		Password: f.password,
		RoleId:   roleID,
	}
	return req, req.Validate()
}

// createUser registers an account, translating duplicate conflicts.
func createUser(ctx context.Context, a *app, req model.SignupRequest) error {
	if err := a.client.CreateUser(ctx, req); err != nil {
		if service.IsConflict(err) {
			return errors.New(duplicateAccountMessage)
		}
		return errors.New(service.MessageOf(err, "could not create account"))
	}
	return nil
}

func newSignupCmd(a *app) *cobra.Command {
	var flags signupFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a customer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(0)
			if err != nil {
				return err
			}
			if err := createUser(cmd.Context(), a, req); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Account created. You can log in now.")
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
