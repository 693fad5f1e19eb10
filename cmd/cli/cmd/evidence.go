package main

import (
	"fmt"
	"os"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/spf13/cobra"
)

// evidenceCmd represents the evidence command
var evidenceCmd = shell.Protect(&cobra.Command{
	Use:   "evidence",
	Short: "Manage evidence records",
	Long:  `Commands for attaching evidence to controls one at a time or in bulk from a CSV file.`,
})

// listEvidenceCmd represents the list command
var listEvidenceCmd = &cobra.Command{
	Use:   "list",
	Short: "List evidence",
	RunE: func(cmd *cobra.Command, args []string) error {
		evidenceType, _ := cmd.Flags().GetString("type")
		if evidenceType != "" && !models.EvidenceType(evidenceType).Valid() {
			return fmt.Errorf("invalid evidence type %q", evidenceType)
		}

		locker := views.NewEvidenceLocker(app.API.Evidence, app.API.Controls, app.Log)
		locker.Load(cmd.Context())
		locker.SetTypeFilter(models.EvidenceType(evidenceType))
		return app.Out.Evidence(locker.Filtered(), len(locker.Evidence()))
	},
}

// addEvidenceCmd represents the add command
var addEvidenceCmd = &cobra.Command{
	Use:   "add",
	Short: "Attach an evidence record to a control",
	Long:  `Attach an evidence record. The control and the title are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := views.NewEvidenceForm()
		form.ControlID, _ = cmd.Flags().GetString("control")
		form.Title, _ = cmd.Flags().GetString("title")
		form.Description, _ = cmd.Flags().GetString("description")
		form.URL, _ = cmd.Flags().GetString("url")
		evidenceType, _ := cmd.Flags().GetString("type")
		form.Type = models.EvidenceType(evidenceType)

		locker := views.NewEvidenceLocker(app.API.Evidence, app.API.Controls, app.Log)
		if err := locker.Add(cmd.Context(), form); err != nil {
			return err
		}
		app.Out.Success("Evidence %q added", form.Title)
		return nil
	},
}

// deleteEvidenceCmd represents the delete command
var deleteEvidenceCmd = &cobra.Command{
	Use:   "delete [evidence-id]",
	Short: "Delete an evidence record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locker := views.NewEvidenceLocker(app.API.Evidence, app.API.Controls, app.Log)
		if err := locker.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		app.Out.Success("Evidence %s deleted", args[0])
		return nil
	},
}

// templateCmd represents the template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Download the bulk upload CSV template",
	Long: `Write the bulk upload template to a file, or to standard output when no file
is given. A built-in template is used when the server cannot provide one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := views.NewUpload(app.API.Evidence, app.Log).Template(cmd.Context())

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			_, err := app.Out.Writer().Write(data)
			return err
		}
		if err := os.WriteFile(file, data, 0o600); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		app.Out.Success("Template written to %s", file)
		return nil
	},
}

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload [file.csv]",
	Short: "Bulk upload evidence from a CSV file",
	Long: `Preview a CSV file and upload it unchanged. With --dry-run only the preview
is shown. Rows the server rejects are listed with their row numbers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		upload := views.NewUpload(app.API.Evidence, app.Log)
		if err := upload.Select(args[0], content); err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if !app.Out.Structured() || dryRun {
			if err := app.Out.Preview(upload.Filename(), upload.Preview()); err != nil {
				return err
			}
		}
		if dryRun {
			return nil
		}

		result, err := upload.Upload(cmd.Context())
		if err != nil {
			return err
		}
		return app.Out.UploadResult(result)
	},
}

func init() {
	listEvidenceCmd.Flags().String("type", "", "Filter by evidence type")

	addEvidenceCmd.Flags().String("control", "", "Control id (required)")
	addEvidenceCmd.Flags().String("type", string(models.EvidencePolicy), "Evidence type")
	addEvidenceCmd.Flags().String("title", "", "Title (required)")
	addEvidenceCmd.Flags().String("description", "", "Description")
	addEvidenceCmd.Flags().String("url", "", "External URL")

	templateCmd.Flags().StringP("file", "f", "", "Write the template to this file")
	uploadCmd.Flags().Bool("dry-run", false, "Only show the preview")

	evidenceCmd.AddCommand(listEvidenceCmd)
	evidenceCmd.AddCommand(addEvidenceCmd)
	evidenceCmd.AddCommand(deleteEvidenceCmd)
	evidenceCmd.AddCommand(templateCmd)
	evidenceCmd.AddCommand(uploadCmd)
}
