// Package render writes view-model state to the terminal as aligned tables,
// or as JSON or YAML when a structured output format is selected.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var badgeColors = map[models.Badge]string{
	models.BadgeSuccess: "\033[32m",
	models.BadgeWarning: "\033[33m",
	models.BadgeInfo:    "\033[36m",
	models.BadgeDanger:  "\033[31m",
	models.BadgeMuted:   "\033[90m",
}

const colorReset = "\033[0m"

// Renderer writes to one output stream in one format
type Renderer struct {
	out    io.Writer
	format string
	color  bool
}

// New creates a renderer. Colour applies to table output only.
func New(out io.Writer, format string, color bool) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{out: out, format: format, color: color}
}

// Writer returns the underlying output stream
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Structured reports whether output is JSON or YAML
func (r *Renderer) Structured() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

// Encode writes v as JSON or YAML
func (r *Renderer) Encode(v interface{}) error {
	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
}

// Badge renders label in the colour of b
func (r *Renderer) Badge(b models.Badge, label string) string {
	if !r.color {
		return label
	}
	code, ok := badgeColors[b]
	if !ok {
		return label
	}
	return code + label + colorReset
}

// Printf writes formatted text
func (r *Renderer) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Println writes a line
func (r *Renderer) Println(args ...interface{}) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Success writes a confirmation line
func (r *Renderer) Success(format string, args ...interface{}) {
	r.Println(r.Badge(models.BadgeSuccess, "✓") + " " + fmt.Sprintf(format, args...))
}

// table writes header, a dashed separator and rows, aligned in columns
func (r *Renderer) table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(r.out, 0, 0, 3, ' ', 0)

	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", len(h))
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))
	_, _ = fmt.Fprintln(w, strings.Join(sep, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// field writes a "Label: value" detail line, skipping empty values
func (r *Renderer) field(label, value string) {
	if value == "" {
		return
	}
	r.Printf("%s: %s\n", label, value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// Shown writes the "N of M <noun> shown" counter of a filtered list
func (r *Renderer) Shown(shown, total int, noun string) {
	r.Printf("%d of %d %s shown\n", shown, total, noun)
}
