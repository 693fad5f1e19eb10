// Package shell is the presentation shell of the CLI: the login gate in front of
// protected commands, the header and navigation, and the interactive REPL.
package shell

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrLoginRequired is returned when a protected command runs without a session
var ErrLoginRequired = errors.New("not logged in: run 'eaw-cli auth login' first")

// AnnotationProtected marks a command subtree as requiring a session.
// The nearest annotated ancestor decides.
const AnnotationProtected = "protected"

// Authenticated reports whether a usable session exists
type Authenticated interface {
	IsAuthenticated() bool
}

// Guard returns ErrLoginRequired unless s is authenticated
func Guard(s Authenticated) error {
	if !s.IsAuthenticated() {
		return ErrLoginRequired
	}
	return nil
}

// Protect marks cmd and its subcommands as requiring a session
func Protect(cmd *cobra.Command) *cobra.Command {
	return annotate(cmd, "true")
}

// Public exempts cmd and its subcommands from the login gate
func Public(cmd *cobra.Command) *cobra.Command {
	return annotate(cmd, "false")
}

func annotate(cmd *cobra.Command, value string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationProtected] = value
	return cmd
}

// IsProtected walks from cmd towards the root and reports the first
// protection annotation it finds. Unannotated trees are public.
func IsProtected(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if v, ok := c.Annotations[AnnotationProtected]; ok {
			return v == "true"
		}
	}
	return false
}
