package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/spf13/cobra"
)

// interactiveCmd represents the interactive command
var interactiveCmd = shell.Public(&cobra.Command{
	Use:     "interactive",
	Aliases: []string{"shell"},
	Short:   "Start an interactive session",
	Long: `Start a shell that runs eaw-cli commands without the program name. Use
'go PATH' or a bare path such as /controls to open a page, 'nav' to show the
navigation and 'exit' to leave. You are asked to sign in whenever no session exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := shell.New(rootCmd, app.Session, views.NewLogin(app.Session))
		return sh.Run(cmd.Context())
	},
})
