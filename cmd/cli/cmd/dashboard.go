package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/spf13/cobra"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = shell.Protect(&cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"home"},
	Short:   "Show the compliance dashboard",
	Long: `Show the SPRS score, implementation breakdown, family heatmap, POA&M summary
and score trend. Sample data is shown when the server cannot be reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := views.NewDashboard(app.API.Dashboard, app.Log)
		d.Load(cmd.Context())
		return app.Out.Dashboard(d.Data(), d.UsingFallback())
	},
})
