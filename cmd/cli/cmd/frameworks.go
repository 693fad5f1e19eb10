package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/spf13/cobra"
)

// frameworksCmd represents the frameworks command
var frameworksCmd = shell.Protect(&cobra.Command{
	Use:     "frameworks",
	Aliases: []string{"framework"},
	Short:   "Show compliance frameworks",
})

var listFrameworksCmd = &cobra.Command{
	Use:   "list",
	Short: "List frameworks",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := views.NewFrameworkList(app.API.Frameworks, app.Log)
		list.Load(cmd.Context())
		return app.Out.Frameworks(list.Frameworks())
	},
}

// showFrameworkCmd fails when the framework cannot be fetched, like controls show
var showFrameworkCmd = &cobra.Command{
	Use:   "show [framework-id]",
	Short: "Show a framework",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		framework, err := app.API.Frameworks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return app.Out.Framework(framework)
	},
}

func init() {
	frameworksCmd.AddCommand(listFrameworksCmd)
	frameworksCmd.AddCommand(showFrameworkCmd)
}
