package main

import (
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/spf13/cobra"
)

// setupCompletion adds shell completion support
func setupCompletion() {
	rootCmd.AddCommand(completionCmd)
	setupCustomCompletions()
}

// completionCmd represents the completion command
var completionCmd = shell.Public(&cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `To load completions:

Bash:
  $ source <(eaw-cli completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ eaw-cli completion bash > /etc/bash_completion.d/eaw-cli
  # macOS:
  $ eaw-cli completion bash > /usr/local/etc/bash_completion.d/eaw-cli

Zsh:
  $ source <(eaw-cli completion zsh)

  # To load completions for each session, execute once:
  $ eaw-cli completion zsh > "${fpath[1]}/_eaw-cli"

Fish:
  $ eaw-cli completion fish | source

  # To load completions for each session, execute once:
  $ eaw-cli completion fish > ~/.config/fish/completions/eaw-cli.fish

PowerShell:
  PS> eaw-cli completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
	},
})

// statusNames converts a vocabulary to completion candidates
func statusNames[T ~string](values []T) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return names
}

// fixedCompletion offers values and no file names
func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeAtPosition offers values only for the positional argument at index pos
func completeAtPosition(pos int, values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// setupCustomCompletions registers completions for the vocabulary-valued flags and arguments
func setupCustomCompletions() {
	implementation := statusNames(models.ImplementationStatuses)
	risks := statusNames(models.RiskLevels)
	poamStatuses := statusNames(models.POAMStatuses)
	evidenceTypes := statusNames(models.EvidenceTypes)

	_ = listControlsCmd.RegisterFlagCompletionFunc("status", fixedCompletion(implementation))
	_ = updateControlCmd.RegisterFlagCompletionFunc("status", fixedCompletion(implementation))
	setStatusCmd.ValidArgsFunction = completeAtPosition(1, implementation)
	objectiveCmd.ValidArgsFunction = completeAtPosition(2, statusNames(models.ObjectiveStatuses))

	_ = listPOAMCmd.RegisterFlagCompletionFunc("risk", fixedCompletion(risks))
	_ = listPOAMCmd.RegisterFlagCompletionFunc("status", fixedCompletion(poamStatuses))
	_ = addPOAMCmd.RegisterFlagCompletionFunc("risk", fixedCompletion(risks))
	setPOAMStatusCmd.ValidArgsFunction = completeAtPosition(1, poamStatuses)

	_ = listEvidenceCmd.RegisterFlagCompletionFunc("type", fixedCompletion(evidenceTypes))
	_ = addEvidenceCmd.RegisterFlagCompletionFunc("type", fixedCompletion(evidenceTypes))
	uploadCmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv"}, cobra.ShellCompDirectiveFilterFileExt
	}

	_ = addBoundaryCmd.RegisterFlagCompletionFunc("classification", fixedCompletion([]string{"CUI", "FCI", "Public"}))
}
