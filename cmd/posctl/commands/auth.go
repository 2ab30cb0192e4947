package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/output"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var (
		username string
		password string
		page     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the backend token",
		Long: `Sign in against the backend and keep the token in the session file.

The password is read from --password or the POS_PASSWORD environment variable.

Examples:
  posctl login -u ana --page administrationPage
  POS_PASSWORD=secret posctl login -u marko --page kitchenPage`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("POS_PASSWORD")
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}
			if !enum.IsValidPage(page) {
				return fmt.Errorf("invalid page %q", page)
			}

			c := newClient(opts)
			defer c.flush()

			// A stale token must not ride along with the login request.
			if err := c.handle.Clear(cmd.Context()); err != nil {
				return err
			}
			result, err := c.gw.Login(cmd.Context(), model.Credentials{Username: username, Password: password})
			if err != nil {
				return err
			}
			err = c.cache.Save(cmd.Context(), session.Session{
				ID:         c.handle.ID(),
				Token:      result.Token,
				ActivePage: page,
				User:       result.User,
			})
			if err != nil {
				return err
			}
			output.Success("Signed in as %s (%s)", result.User.Username, page)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (defaults to $POS_PASSWORD)")
	cmd.Flags().StringVar(&page, "page", enum.PageAdministration, "Page to open: administrationPage, waiterPage or kitchenPage")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if err := c.handle.Clear(cmd.Context()); err != nil {
				return err
			}
			output.Success("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			s, err := c.require(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return output.JSON(map[string]any{"user": s.User, "activePage": s.ActivePage})
			}
			output.Info("%s on %s", s.User.Username, s.ActivePage)
			output.Muted("backend %s, signed in %s", opts.backendURL, s.CreatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}
