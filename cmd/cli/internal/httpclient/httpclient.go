package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized matches APIErrors with status 401 or 403
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches APIErrors with status 404
	ErrNotFound = errors.New("not found")
)

// TokenSource supplies the bearer credential attached to every request.
// An empty token means the request is sent without an Authorization header.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the server
type APIError struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	ErrorMsg string `json:"error"`
	Msg      string `json:"msg"`
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = e.ErrorMsg
	}
	if message == "" {
		message = e.Msg
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d error", e.Status)
	}
	return message
}

// Is lets errors.Is match the status-class sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// TransportError is a failure to reach the server or read its response
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is the single configured HTTP client shared by all resource clients
type Client struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	log       *logger.Logger
	requestID func() string
}

// New creates a client for baseURL. A zero timeout disables the client timeout.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, tokens, log)
}

// NewWithHTTPClient creates a client around an existing *http.Client
func NewWithHTTPClient(baseURL string, hc *http.Client, tokens TokenSource, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    hc,
		tokens:    tokens,
		log:       log,
		requestID: func() string { return uuid.NewString() },
	}
}

// BaseURL returns the API base URL requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newRequest builds a request with the shared headers and the bearer token
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.requestID())

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)

	fields := map[string]string{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": req.Header.Get("X-Request-ID"),
		"elapsed":    time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		c.log.WithFields(fields).Debug("request failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	fields["status"] = fmt.Sprint(resp.StatusCode)
	c.log.WithFields(fields).Debug("request completed")
	return resp, nil
}

// readResponse drains the body and turns >= 400 statuses into *APIError
func readResponse(resp *http.Response) ([]byte, error) {
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: resp.Request.Method, URL: resp.Request.URL.String(), Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr = &APIError{Message: strings.TrimSpace(string(body))}
		}
		apiErr.Status = resp.StatusCode
		return nil, apiErr
	}
	return body, nil
}

func decodeInto(body []byte, result interface{}) error {
	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// Do performs a JSON request and decodes the response into result (may be nil)
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, c.buildURL(path, query), reqBody, contentType)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}

	data, err := readResponse(resp)
	if err != nil {
		return err
	}
	return decodeInto(data, result)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// PostMultipart uploads content as a single multipart form file under field.
// The bytes are sent untouched.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, content io.Reader, result interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.buildURL(path, nil), &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}

	data, err := readResponse(resp)
	if err != nil {
		return err
	}
	return decodeInto(data, result)
}

// GetRaw performs a GET request and returns the undecoded body
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.buildURL(path, nil), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return readResponse(resp)
}
