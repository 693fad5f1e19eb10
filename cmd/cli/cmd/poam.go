package main

import (
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/spf13/cobra"
)

// poamCmd represents the poam command
var poamCmd = shell.Protect(&cobra.Command{
	Use:     "poam",
	Aliases: []string{"poams"},
	Short:   "Manage Plan of Action and Milestones items",
	Long:    `Commands for recording, progressing and removing POA&M items for unmet controls.`,
})

// listPOAMCmd represents the list command
var listPOAMCmd = &cobra.Command{
	Use:   "list",
	Short: "List POA&M items",
	RunE: func(cmd *cobra.Command, args []string) error {
		risk, _ := cmd.Flags().GetString("risk")
		status, _ := cmd.Flags().GetString("status")
		if risk != "" && !models.RiskLevel(risk).Valid() {
			return fmt.Errorf("invalid risk level %q", risk)
		}
		if status != "" && !models.POAMStatus(status).Valid() {
			return fmt.Errorf("invalid POA&M status %q", status)
		}

		board := views.NewPOAMBoard(app.API.POAM, app.API.Controls, app.Log)
		board.Load(cmd.Context())
		board.SetFilter(views.POAMFilter{Risk: models.RiskLevel(risk), Status: models.POAMStatus(status)})
		return app.Out.POAM(board.Filtered(), len(board.Items()))
	},
}

// addPOAMCmd represents the add command
var addPOAMCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a POA&M item",
	Long:  `Create an open POA&M item. The control and the weakness description are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := views.NewPOAMForm()
		form.ControlID, _ = cmd.Flags().GetString("control")
		form.Weakness, _ = cmd.Flags().GetString("weakness")
		form.Remediation, _ = cmd.Flags().GetString("remediation")
		form.Owner, _ = cmd.Flags().GetString("owner")
		form.DueDate, _ = cmd.Flags().GetString("due")
		risk, _ := cmd.Flags().GetString("risk")
		form.Risk = models.RiskLevel(risk)

		board := views.NewPOAMBoard(app.API.POAM, app.API.Controls, app.Log)
		if err := board.Add(cmd.Context(), form); err != nil {
			return err
		}
		app.Out.Success("POA&M item created")
		return nil
	},
}

// setPOAMStatusCmd represents the set-status command
var setPOAMStatusCmd = &cobra.Command{
	Use:   "set-status [poam-id] [status]",
	Short: "Change the status of a POA&M item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		board := views.NewPOAMBoard(app.API.POAM, app.API.Controls, app.Log)
		status := models.POAMStatus(args[1])
		if err := board.ChangeStatus(cmd.Context(), args[0], status); err != nil {
			return err
		}
		app.Out.Success("POA&M item %s is now %s", args[0], status.Label())
		return nil
	},
}

// deletePOAMCmd represents the delete command
var deletePOAMCmd = &cobra.Command{
	Use:   "delete [poam-id]",
	Short: "Delete a POA&M item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		board := views.NewPOAMBoard(app.API.POAM, app.API.Controls, app.Log)
		if err := board.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		app.Out.Success("POA&M item %s deleted", args[0])
		return nil
	},
}

func init() {
	listPOAMCmd.Flags().String("risk", "", "Filter by risk level")
	listPOAMCmd.Flags().String("status", "", "Filter by status")

	addPOAMCmd.Flags().String("control", "", "Control id (required)")
	addPOAMCmd.Flags().String("weakness", "", "Weakness description (required)")
	addPOAMCmd.Flags().String("remediation", "", "Remediation plan")
	addPOAMCmd.Flags().String("risk", string(models.RiskModerate), "Risk level")
	addPOAMCmd.Flags().String("owner", "", "Responsible person")
	addPOAMCmd.Flags().String("due", "", "Planned completion date (YYYY-MM-DD)")

	poamCmd.AddCommand(listPOAMCmd)
	poamCmd.AddCommand(addPOAMCmd)
	poamCmd.AddCommand(setPOAMStatusCmd)
	poamCmd.AddCommand(deletePOAMCmd)
}
