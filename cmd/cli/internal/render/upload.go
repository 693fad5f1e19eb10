package render

import (
	"fmt"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// Preview writes the header and first rows of an upload file
func (r *Renderer) Preview(filename string, p views.Preview) error {
	if r.Structured() {
		return r.Encode(p)
	}

	r.Println()
	r.Println(p.Summary(filename))
	if len(p.Header) == 0 {
		return nil
	}
	r.table(p.Header, p.Rows)
	if p.Remaining > 0 {
		r.Printf("...and %d more rows\n", p.Remaining)
	}
	r.Println()
	return nil
}

// UploadResult writes the verdict of a bulk upload: one success banner when
// anything was created, then one line per rejected row
func (r *Renderer) UploadResult(result models.BulkUploadResult) error {
	if r.Structured() {
		if result.Errors == nil {
			result.Errors = []models.BulkUploadError{}
		}
		return r.Encode(result)
	}

	if result.Created > 0 {
		r.Success("Successfully created %d evidence item(s)", result.Created)
	}
	if len(result.Errors) > 0 {
		r.Println(r.Badge(models.BadgeWarning, "Errors:"))
		for _, line := range UploadErrorLines(result) {
			r.Println("  " + line)
		}
	}
	return nil
}

// UploadErrorLines formats each rejected row as "Row R: message"
func UploadErrorLines(result models.BulkUploadResult) []string {
	lines := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		lines = append(lines, fmt.Sprintf("Row %d: %s", e.Row, strings.TrimSpace(e.Message)))
	}
	return lines
}
