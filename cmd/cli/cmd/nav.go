package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/spf13/cobra"
)

// navCmd represents the nav command
var navCmd = shell.Public(&cobra.Command{
	Use:   "nav",
	Short: "Show the navigation sections and the command behind each page",
	RunE: func(cmd *cobra.Command, args []string) error {
		collapsed, _ := cmd.Flags().GetBool("collapsed")
		if app.Out.Structured() {
			return app.Out.Encode(shell.Sections)
		}
		_, _ = cmd.OutOrStdout().Write([]byte(shell.Header(app.Session.User()) + "\n\n"))
		nav := shell.Nav{Collapsed: collapsed}
		nav.Render(cmd.OutOrStdout(), "")
		return nil
	},
})

func init() {
	navCmd.Flags().Bool("collapsed", false, "Show paths only")
}
