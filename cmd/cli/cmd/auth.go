package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// authCmd represents the auth command
var authCmd = shell.Public(&cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for signing in and out and inspecting the stored session.`,
})

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the compliance tracker",
	Long: `Sign in with a username and password. Missing values are prompted for.
The token and user are kept in the keyring until 'auth logout'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		in := bufio.NewReader(cmd.InOrStdin())
		var err error
		if username == "" {
			if username, err = promptLine(cmd.ErrOrStderr(), in, "Username: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptPassword(cmd, in, "Password: "); err != nil {
				return err
			}
		}

		if err := views.NewLogin(app.Session).Submit(cmd.Context(), username, password); err != nil {
			return err
		}

		user := app.Session.User()
		app.Out.Success("Logged in as %s (%s)", user.Username, user.Role)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  `Clear the stored token and user. This never contacts the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.Session.Logout()
		app.Out.Success("Logged out")
		return nil
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Display the stored session, the API it talks to and the token expiry when known.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := app.Session.Snapshot()
		expires, _ := app.Session.Expiry()
		return app.Out.Session(snap.IsAuthenticated, snap.User, app.HTTP.BaseURL(), expires)
	},
}

// whoamiCmd represents the whoami command
var whoamiCmd = shell.Protect(&cobra.Command{
	Use:   "whoami",
	Short: "Show the current user as the server sees it",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.API.Auth.Me(cmd.Context())
		if err != nil {
			return err
		}
		return app.Out.User(&user)
	},
})

func promptLine(w io.Writer, in *bufio.Reader, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal
func promptPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
	return promptLine(cmd.ErrOrStderr(), in, prompt)
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted for when omitted)")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(whoamiCmd)
}
