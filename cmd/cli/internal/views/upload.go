package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

const (
	// PreviewRowLimit is how many data rows the upload preview shows
	PreviewRowLimit = 20
	// UploadFailedMessage replaces the server verdict when the upload itself fails
	UploadFailedMessage = "Upload failed. Check file format."
)

var (
	// ErrNotCSV is returned when a file without a .csv extension is selected
	ErrNotCSV = errors.New("only .csv files are accepted")
	// ErrNoFile is returned by Upload before a file was selected
	ErrNoFile = errors.New("no file selected")
)

// ParseCSVPreview splits text into cells for display only: the text is trimmed,
// split on newlines, then on commas, and every cell is trimmed. Quoting is not
// understood, so a quoted comma splits its cell. The upload itself always sends
// the original bytes.
func ParseCSVPreview(text string) [][]string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	table := make([][]string, len(lines))
	for i, line := range lines {
		cells := strings.Split(line, ",")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		table[i] = cells
	}
	return table
}

// Preview is the header and the first rows of a parsed upload file
type Preview struct {
	Header    []string   `json:"header" yaml:"header"`
	Rows      [][]string `json:"rows" yaml:"rows"`
	Remaining int        `json:"remaining" yaml:"remaining"`
}

// BuildPreview takes the first row of table as the header and keeps up to
// PreviewRowLimit data rows. Remaining counts the rows left out.
func BuildPreview(table [][]string) Preview {
	p := Preview{Rows: [][]string{}}
	if len(table) == 0 {
		return p
	}
	p.Header = table[0]
	rows := table[1:]
	if len(rows) > PreviewRowLimit {
		p.Remaining = len(rows) - PreviewRowLimit
		rows = rows[:PreviewRowLimit]
	}
	p.Rows = rows
	return p
}

// FailedUpload is the result shown when the upload could not be completed
func FailedUpload() models.BulkUploadResult {
	return models.BulkUploadResult{
		Created: 0,
		Errors:  []models.BulkUploadError{{Row: 0, Message: UploadFailedMessage}},
	}
}

// Upload is the bulk evidence upload page
type Upload struct {
	mu  sync.RWMutex
	api EvidenceStore
	log *logger.Logger

	filename  string
	content   []byte
	preview   Preview
	result    *models.BulkUploadResult
	uploading Submit
}

// NewUpload creates an upload page with no file selected
func NewUpload(store EvidenceStore, log *logger.Logger) *Upload {
	if log == nil {
		log = logger.Discard()
	}
	return &Upload{api: store, log: log}
}

// Select chooses the file to upload and builds its preview. Any previous
// result is cleared.
func (u *Upload) Select(filename string, content []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ErrNotCSV
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.filename = filepath.Base(filename)
	u.content = content
	u.preview = BuildPreview(ParseCSVPreview(string(content)))
	u.result = nil
	return nil
}

// Filename returns the selected file name, or ""
func (u *Upload) Filename() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.filename
}

// Preview returns the preview of the selected file
func (u *Upload) Preview() Preview {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.preview
}

// Result returns the outcome of the last upload, or nil
func (u *Upload) Result() *models.BulkUploadResult {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.result == nil {
		return nil
	}
	r := *u.result
	return &r
}

// Uploading reports whether an upload is in flight
func (u *Upload) Uploading() bool {
	return u.uploading.Busy()
}

// Clear drops the selected file, its preview and the result
func (u *Upload) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.filename = ""
	u.content = nil
	u.preview = Preview{}
	u.result = nil
}

// Upload sends the selected file byte for byte. A failed request is reported
// through the result, not the error; the error is only set when nothing was sent.
func (u *Upload) Upload(ctx context.Context) (models.BulkUploadResult, error) {
	u.mu.RLock()
	filename, content := u.filename, u.content
	u.mu.RUnlock()
	if filename == "" {
		return models.BulkUploadResult{}, ErrNoFile
	}
	if !u.uploading.Begin() {
		return models.BulkUploadResult{}, ErrBusy
	}
	defer u.uploading.End()

	var result models.BulkUploadResult
	res, err := u.api.BulkUpload(ctx, filename, bytes.NewReader(content))
	if err != nil || res == nil {
		u.log.Debugf("bulk upload of %s failed: %v", filename, err)
		result = FailedUpload()
	} else {
		result = *res
	}

	u.mu.Lock()
	u.result = &result
	u.mu.Unlock()
	return result, nil
}

// Template returns the server's upload template, or the built-in one when the
// server cannot provide it
func (u *Upload) Template(ctx context.Context) []byte {
	data, err := u.api.Template(ctx)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		u.log.Debugf("using built-in evidence template: %v", err)
		return []byte(api.DefaultTemplate)
	}
	return data
}

// Summary is the line shown above the preview, e.g. "evidence.csv: 3 rows"
func (p Preview) Summary(filename string) string {
	return fmt.Sprintf("%s: %d rows", filename, len(p.Rows)+p.Remaining)
}
