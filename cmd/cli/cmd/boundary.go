package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/spf13/cobra"
)

// boundaryCmd represents the boundary command
var boundaryCmd = shell.Protect(&cobra.Command{
	Use:   "boundary",
	Short: "Manage the assessment boundary",
	Long:  `Commands for the assets inside and outside the CUI assessment boundary.`,
})

// listBoundaryCmd represents the list command
var listBoundaryCmd = &cobra.Command{
	Use:   "list",
	Short: "List boundary assets with the CUI and FCI counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		register := views.NewBoundaryRegister(app.API.Boundary, app.Log)
		register.Load(cmd.Context())
		return app.Out.Boundary(register.Assets(), register.Summary())
	},
}

// addBoundaryCmd represents the add command
var addBoundaryCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an in-scope boundary asset",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := views.NewBoundaryForm()
		form.Name, _ = cmd.Flags().GetString("name")
		form.Type, _ = cmd.Flags().GetString("type")
		form.Boundary, _ = cmd.Flags().GetString("boundary")
		form.Classification, _ = cmd.Flags().GetString("classification")
		form.Notes, _ = cmd.Flags().GetString("notes")

		register := views.NewBoundaryRegister(app.API.Boundary, app.Log)
		if err := register.Add(cmd.Context(), form); err != nil {
			return err
		}
		app.Out.Success("Asset %q added", form.Name)
		return nil
	},
}

// toggleScopeCmd represents the toggle-scope command
var toggleScopeCmd = &cobra.Command{
	Use:   "toggle-scope [asset-id]",
	Short: "Move an asset into or out of the boundary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		register := views.NewBoundaryRegister(app.API.Boundary, app.Log)
		register.Load(cmd.Context())
		inScope, err := register.ToggleScope(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if inScope == 1 {
			app.Out.Success("Asset %s is now in scope", args[0])
		} else {
			app.Out.Success("Asset %s is now out of scope", args[0])
		}
		return nil
	},
}

// deleteBoundaryCmd represents the delete command
var deleteBoundaryCmd = &cobra.Command{
	Use:   "delete [asset-id]",
	Short: "Delete a boundary asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		register := views.NewBoundaryRegister(app.API.Boundary, app.Log)
		if err := register.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		app.Out.Success("Asset %s deleted", args[0])
		return nil
	},
}

func init() {
	addBoundaryCmd.Flags().String("name", "", "Asset name (required)")
	addBoundaryCmd.Flags().String("type", "", "Asset type")
	addBoundaryCmd.Flags().String("boundary", "", "Boundary name")
	addBoundaryCmd.Flags().String("classification", "CUI", "Data classification")
	addBoundaryCmd.Flags().String("notes", "", "Notes")

	boundaryCmd.AddCommand(listBoundaryCmd)
	boundaryCmd.AddCommand(addBoundaryCmd)
	boundaryCmd.AddCommand(toggleScopeCmd)
	boundaryCmd.AddCommand(deleteBoundaryCmd)
}
