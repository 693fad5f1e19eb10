package api

import (
	"context"
	"fmt"
	"io"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// TemplateHeader is the column layout the bulk upload endpoint expects
const TemplateHeader = "control_number,evidence_type,title,description,external_url"

// DefaultTemplate is the bulk upload template used when the server has none to offer
const DefaultTemplate = TemplateHeader + "\n" +
	"3.1.1,policy,Access Control Policy v2.1,Corporate access control policy document,https://wiki.example.com/policies/ac\n" +
	"3.5.3,screenshot,MFA Configuration Screenshot,Screenshot showing MFA enabled for all admin accounts,\n" +
	"3.13.1,configuration,TLS 1.2 Configuration Export,Network device TLS configuration showing FIPS-validated ciphers,https://wiki.example.com/configs/tls\n"

// EvidenceClient talks to the /evidence endpoints
type EvidenceClient struct {
	hc *httpclient.Client
}

// EvidenceQuery narrows an evidence listing on the server. Empty fields are not sent.
type EvidenceQuery struct {
	ControlID    string
	EvidenceType string
}

// CreateEvidenceRequest is the body of POST /evidence.
// Description and ExternalURL are sent as null when empty.
type CreateEvidenceRequest struct {
	ControlID    string              `json:"control_id"`
	EvidenceType models.EvidenceType `json:"evidence_type"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	ExternalURL  *string             `json:"external_url"`
}

// List returns the evidence matching q
func (c *EvidenceClient) List(ctx context.Context, q EvidenceQuery) ([]models.Evidence, error) {
	var evidence []models.Evidence
	query := params("control_id", q.ControlID, "evidence_type", q.EvidenceType)
	if err := c.hc.Get(ctx, "/evidence", query, &evidence); err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}
	return evidence, nil
}

// Create attaches a new evidence record to a control
func (c *EvidenceClient) Create(ctx context.Context, req CreateEvidenceRequest) (*models.Evidence, error) {
	var evidence models.Evidence
	if err := c.hc.Post(ctx, "/evidence", req, &evidence); err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}
	return &evidence, nil
}

// Delete removes an evidence record
func (c *EvidenceClient) Delete(ctx context.Context, id string) error {
	if err := c.hc.Delete(ctx, idPath("/evidence", id)); err != nil {
		return fmt.Errorf("failed to delete evidence %s: %w", id, err)
	}
	return nil
}

// BulkUpload sends a CSV file as the multipart field "file". The content is
// forwarded byte for byte; parsing and validation happen on the server.
func (c *EvidenceClient) BulkUpload(ctx context.Context, filename string, content io.Reader) (*models.BulkUploadResult, error) {
	var result models.BulkUploadResult
	if err := c.hc.PostMultipart(ctx, "/evidence/bulk", "file", filename, content, &result); err != nil {
		return nil, fmt.Errorf("failed to upload evidence: %w", err)
	}
	return &result, nil
}

// Template downloads the server's bulk upload template
func (c *EvidenceClient) Template(ctx context.Context) ([]byte, error) {
	data, err := c.hc.GetRaw(ctx, "/evidence/template")
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence template: %w", err)
	}
	return data, nil
}
