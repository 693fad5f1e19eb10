package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Session is what the shell needs to know about the signed-in user
type Session interface {
	Authenticated
	User() *models.User
}

// Shell is the interactive REPL. It refuses to run commands until a session
// exists, prompting for credentials instead.
type Shell struct {
	root    *cobra.Command
	session Session
	login   *views.Login
	nav     Nav
	current string
	out     io.Writer
	errOut  io.Writer
	exec    func(args []string) error
}

// New creates a shell that runs lines through root
func New(root *cobra.Command, session Session, login *views.Login) *Shell {
	s := &Shell{
		root:    root,
		session: session,
		login:   login,
		current: "/",
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	s.exec = s.execute
	return s
}

// HistoryFile returns the path of the REPL history file
func HistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".eaw", "cli_history")
}

// Prompt reflects the session state
func (s *Shell) Prompt() string {
	if u := s.session.User(); u != nil && s.session.IsAuthenticated() {
		return fmt.Sprintf("eaw (%s@%s)> ", u.Username, u.Role)
	}
	return "eaw (not logged in)> "
}

// Run reads lines until exit, EOF or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Prompt(),
		HistoryFile:     HistoryFile(),
		AutoComplete:    buildCompleter(s.root),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize interactive mode: %w", err)
	}
	defer rl.Close()

	_, _ = fmt.Fprintln(s.out, Header(s.session.User()))
	_, _ = fmt.Fprintln(s.out, "Type 'help' for available commands, 'nav' for navigation, 'exit' or 'quit' to exit.")
	_, _ = fmt.Fprintln(s.out)

	for ctx.Err() == nil {
		if !s.session.IsAuthenticated() {
			if err := s.promptLogin(ctx, rl); err != nil {
				if errors.Is(err, io.EOF) {
					_, _ = fmt.Fprintln(s.out, "exit")
					return nil
				}
				continue
			}
			_, _ = fmt.Fprintln(s.out, Header(s.session.User()))
			s.Navigate("/")
			continue
		}

		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					_, _ = fmt.Fprintln(s.out, "Type 'exit' or 'quit' to exit")
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintln(s.out, "exit")
				return nil
			}
			return err
		}

		if s.Handle(line) {
			_, _ = fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
	}
	return nil
}

// promptLogin asks for credentials until a login succeeds. Only EOF ends it early.
func (s *Shell) promptLogin(ctx context.Context, rl *readline.Instance) error {
	_, _ = fmt.Fprintln(s.out, "Sign in to continue.")

	rl.SetPrompt("Username: ")
	username, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return err
		}
		return io.EOF
	}
	password, err := rl.ReadPassword("Password: ")
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return err
		}
		return io.EOF
	}

	if err := s.login.Submit(ctx, strings.TrimSpace(username), string(password)); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %s\n", s.login.Message())
		return err
	}
	return nil
}

// Handle runs one input line. It reports true when the shell should exit.
func (s *Shell) Handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch {
	case line == "exit" || line == "quit":
		return true
	case line == "clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")
		return false
	case line == "nav":
		s.nav.Render(s.out, s.current)
		return false
	case line == "nav toggle":
		s.nav.Toggle()
		s.nav.Render(s.out, s.current)
		return false
	case line == "interactive" || line == "shell":
		_, _ = fmt.Fprintln(s.out, "Already in interactive mode")
		return false
	case strings.HasPrefix(line, "go ") || strings.HasPrefix(line, "/"):
		s.Navigate(strings.TrimSpace(strings.TrimPrefix(line, "go ")))
		return false
	}

	args, err := parseCommandLine(line)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: failed to parse command: %v\n", err)
		return false
	}
	if err := s.exec(args); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false
}

// Navigate opens the page at path. Paths needing input the shell cannot
// supply, such as the upload page, print a usage hint instead.
func (s *Shell) Navigate(path string) {
	command := Resolve(path)
	if command == "evidence upload" {
		s.current = "/upload-evidence"
		_, _ = fmt.Fprintln(s.out, "Usage: evidence upload FILE [--dry-run]")
		return
	}
	s.current = pathOf(command, path)
	if err := s.exec(strings.Fields(command)); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
}

func pathOf(command, requested string) string {
	for _, sec := range Sections {
		for _, item := range sec.Items {
			if item.Command == command {
				return item.Path
			}
		}
	}
	return requested
}

// execute runs args through the command tree with flags reset to their defaults
func (s *Shell) execute(args []string) error {
	if len(args) == 0 {
		return nil
	}
	ResetFlags(s.root)
	s.root.SetArgs(args)
	return s.root.Execute()
}

// ResetFlags restores every flag of cmd and its subcommands to its default
func ResetFlags(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		if flag.Changed {
			_ = flag.Value.Set(flag.DefValue)
			flag.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)

	for _, subCmd := range cmd.Commands() {
		ResetFlags(subCmd)
	}
}

// parseCommandLine parses a command line into arguments, respecting quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)
	escaped := false

	for _, ch := range line {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case (ch == '"' || ch == '\'') && !inQuote:
			inQuote = true
			quoteChar = ch
		case ch == quoteChar && inQuote:
			inQuote = false
			quoteChar = 0
		case ch == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}

	return args, nil
}

// buildCompleter creates a readline completer from the command tree
func buildCompleter(rootCmd *cobra.Command) *readline.PrefixCompleter {
	items := buildCompletionItems(rootCmd)
	items = append(items,
		readline.PcItem("nav", readline.PcItem("toggle")),
		readline.PcItem("go", navCompletionItems()...),
		readline.PcItem("clear"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func navCompletionItems() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, s := range Sections {
		for _, item := range s.Items {
			items = append(items, readline.PcItem(item.Path))
		}
	}
	return items
}

// buildCompletionItems recursively builds completion items from the command tree
func buildCompletionItems(cmd *cobra.Command) []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface

	for _, subCmd := range cmd.Commands() {
		if subCmd.Hidden || subCmd.Name() == "interactive" {
			continue
		}

		subItems := buildCompletionItems(subCmd)
		items = append(items, readline.PcItem(subCmd.Name(), subItems...))
		for _, alias := range subCmd.Aliases {
			items = append(items, readline.PcItem(alias, subItems...))
		}
	}

	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Hidden {
			items = append(items, readline.PcItem("--"+flag.Name))
		}
	})

	return items
}
