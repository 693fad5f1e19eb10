package views

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVPreview(t *testing.T) {
	text := "\n control_number , title \r\n3.1.1, Access Policy\n3.5.3,MFA\n\n"
	assert.Equal(t, [][]string{
		{"control_number", "title"},
		{"3.1.1", "Access Policy"},
		{"3.5.3", "MFA"},
	}, ParseCSVPreview(text))
}

func TestParseCSVPreviewSplitsQuotedCommas(t *testing.T) {
	got := ParseCSVPreview("title,url\n\"Policy, v2\",https://x")
	require.Len(t, got, 2)
	assert.Equal(t, []string{`"Policy`, `v2"`, "https://x"}, got[1])
}

func TestParseCSVPreviewEmpty(t *testing.T) {
	assert.Equal(t, [][]string{{""}}, ParseCSVPreview("   "))
	p := BuildPreview(ParseCSVPreview(""))
	assert.Equal(t, []string{""}, p.Header)
	assert.Empty(t, p.Rows)
}

func TestBuildPreviewLimitsRows(t *testing.T) {
	var b strings.Builder
	b.WriteString(api.TemplateHeader + "\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "3.1.%d,policy,Doc %d,,\n", i, i)
	}
	p := BuildPreview(ParseCSVPreview(b.String()))
	assert.Len(t, p.Header, 5)
	assert.Len(t, p.Rows, PreviewRowLimit)
	assert.Equal(t, 5, p.Remaining)
	assert.Equal(t, "bulk.csv: 25 rows", p.Summary("bulk.csv"))
}

func TestUploadSelectRejectsNonCSV(t *testing.T) {
	client, _ := newAPI(t)
	u := NewUpload(client.Evidence, nil)
	assert.ErrorIs(t, u.Select("evidence.xlsx", []byte("x")), ErrNotCSV)
	assert.Empty(t, u.Filename())
	require.NoError(t, u.Select("/tmp/Evidence.CSV", []byte("a,b\n1,2")))
	assert.Equal(t, "Evidence.CSV", u.Filename())
}

func TestUploadSendsOriginalBytes(t *testing.T) {
	client, srv := newAPI(t)
	srv.BulkResult = models.BulkUploadResult{
		Created: 2,
		Errors:  []models.BulkUploadError{{Row: 3, Message: "control_number not found"}},
	}
	content := "control_number,evidence_type,title\n3.1.1,policy,\"Policy, v2\"\n9.9.9,policy,Bad\n3.5.3,screenshot,MFA\n"

	u := NewUpload(client.Evidence, nil)
	_, err := u.Upload(context.Background())
	assert.ErrorIs(t, err, ErrNoFile)

	require.NoError(t, u.Select("evidence.csv", []byte(content)))
	assert.Len(t, u.Preview().Rows[0], 4)

	result, err := u.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, content, string(srv.BulkBody))
	assert.Equal(t, &result, u.Result())
	assert.False(t, u.Uploading())

	u.Clear()
	assert.Nil(t, u.Result())
	assert.Empty(t, u.Filename())
}

func TestUploadFailureIsSyntheticResult(t *testing.T) {
	client, srv := newAPI(t)
	srv.Fail(http.MethodPost, "/evidence/bulk", http.StatusInternalServerError)

	u := NewUpload(client.Evidence, nil)
	require.NoError(t, u.Select("evidence.csv", []byte("a\n1")))
	result, err := u.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FailedUpload(), result)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, UploadFailedMessage, result.Errors[0].Message)
}

func TestUploadTemplateFallback(t *testing.T) {
	client, srv := newAPI(t)
	u := NewUpload(client.Evidence, nil)
	assert.Equal(t, api.TemplateHeader+"\n", string(u.Template(context.Background())))

	srv.Fail(http.MethodGet, "/evidence/template", http.StatusNotFound)
	assert.Equal(t, api.DefaultTemplate, string(u.Template(context.Background())))
}
