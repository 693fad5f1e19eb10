package main

import (
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/spf13/cobra"
)

// controlsCmd represents the controls command
var controlsCmd = shell.Protect(&cobra.Command{
	Use:     "controls",
	Aliases: []string{"control"},
	Short:   "Browse and assess security controls",
	Long:    `Commands for listing controls, recording their implementation and assessing their objectives.`,
})

// listControlsCmd represents the list command
var listControlsCmd = &cobra.Command{
	Use:   "list",
	Short: "List controls",
	Long: `List controls, optionally narrowed by family, implementation status and a
search over control number, title and family code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		family, _ := cmd.Flags().GetString("family")
		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")
		if status != "" && !models.ImplementationStatus(status).Valid() {
			return fmt.Errorf("invalid implementation status %q", status)
		}

		list := views.NewControlList(app.API.Controls, app.Log)
		list.Load(cmd.Context())
		list.SetFilter(views.ControlFilter{
			Family: family,
			Status: models.ImplementationStatus(status),
			Search: search,
		})
		return app.Out.Controls(list.Filtered(), len(list.Controls()))
	},
}

// familiesCmd represents the families command
var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List control families",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := views.NewControlList(app.API.Controls, app.Log)
		list.Load(cmd.Context())
		return app.Out.Families(list.Families())
	},
}

// loadControl opens the detail page of id, failing when nothing could be loaded
func loadControl(cmd *cobra.Command, id string) (*views.ControlDetail, error) {
	detail := views.NewControlDetail(app.API.Controls, id, app.Log)
	detail.Load(cmd.Context())
	switch detail.Phase() {
	case views.PhaseNotFound:
		return nil, fmt.Errorf("control not found: %s", id)
	case views.PhaseFailed:
		return nil, fmt.Errorf("failed to load control %s", id)
	}
	return detail, nil
}

// showControlCmd represents the show command
var showControlCmd = &cobra.Command{
	Use:   "show [control-id]",
	Short: "Show a control with its objectives, evidence and POA&M items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := loadControl(cmd, args[0])
		if err != nil {
			return err
		}
		return app.Out.ControlDetail(detail.Control())
	},
}

// updateControlCmd represents the update command
var updateControlCmd = &cobra.Command{
	Use:   "update [control-id]",
	Short: "Update a control's implementation status and notes",
	Long: `Update the implementation status, implementation notes and assessor notes of a
control. Values that are not given keep their current contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := loadControl(cmd, args[0])
		if err != nil {
			return err
		}

		form := detail.Form()
		if cmd.Flags().Changed("status") {
			status, _ := cmd.Flags().GetString("status")
			form.Status = models.ImplementationStatus(status)
		}
		if cmd.Flags().Changed("implementation-notes") {
			form.ImplementationNotes, _ = cmd.Flags().GetString("implementation-notes")
		}
		if cmd.Flags().Changed("assessor-notes") {
			form.AssessorNotes, _ = cmd.Flags().GetString("assessor-notes")
		}
		detail.SetForm(form)

		if err := detail.Save(cmd.Context()); err != nil {
			return err
		}
		if app.Out.Structured() {
			return app.Out.ControlDetail(detail.Control())
		}
		app.Out.Success("Control %s saved", detail.Control().ControlNumber)
		return nil
	},
}

// setStatusCmd represents the set-status command
var setStatusCmd = &cobra.Command{
	Use:   "set-status [control-id] [status]",
	Short: "Change only the implementation status of a control",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := loadControl(cmd, args[0])
		if err != nil {
			return err
		}
		status := models.ImplementationStatus(args[1])
		if err := detail.SetStatus(cmd.Context(), status); err != nil {
			return err
		}
		app.Out.Success("Control %s is now %s", detail.Control().ControlNumber, status.Label())
		return nil
	},
}

// objectiveCmd represents the objective command
var objectiveCmd = &cobra.Command{
	Use:   "objective [control-id] [objective-id] [status]",
	Short: "Assess an objective of a control",
	Long: `Set the status of an assessment objective. Without a status the objective
advances through met, not met and not assessed.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := loadControl(cmd, args[0])
		if err != nil {
			return err
		}

		var status models.ObjectiveStatus
		if len(args) == 3 {
			status = models.ObjectiveStatus(args[2])
			err = detail.SetObjectiveStatus(cmd.Context(), args[1], status)
		} else {
			status, err = detail.ToggleObjective(cmd.Context(), args[1])
		}
		if err != nil {
			return err
		}
		app.Out.Success("Objective %s is now %s", args[1], status.Label())
		return nil
	},
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every control with its assessment data",
	RunE: func(cmd *cobra.Command, args []string) error {
		export, err := app.API.Controls.Export(cmd.Context())
		if err != nil {
			return err
		}
		return app.Out.Export(export)
	},
}

func init() {
	listControlsCmd.Flags().String("family", "", "Filter by family id or code")
	listControlsCmd.Flags().String("status", "", "Filter by implementation status")
	listControlsCmd.Flags().String("search", "", "Search control number, title and family code")

	updateControlCmd.Flags().String("status", "", "Implementation status")
	updateControlCmd.Flags().String("implementation-notes", "", "Implementation notes")
	updateControlCmd.Flags().String("assessor-notes", "", "Assessor notes")

	controlsCmd.AddCommand(listControlsCmd)
	controlsCmd.AddCommand(familiesCmd)
	controlsCmd.AddCommand(showControlCmd)
	controlsCmd.AddCommand(updateControlCmd)
	controlsCmd.AddCommand(setStatusCmd)
	controlsCmd.AddCommand(objectiveCmd)
	controlsCmd.AddCommand(exportCmd)
}
