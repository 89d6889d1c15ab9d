package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Service defines the calls a job session makes against the translation
// service. It is implemented by *Client and can be faked in tests.
type Service interface {
	Submit(ctx context.Context, submissionURL string, upload Upload) (string, error)
	FetchResult(ctx context.Context, resultURL string) (ResultResponse, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the translation service over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
}

// Config describes client construction parameters. The zero value is usable.
type Config struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
}

const (
	defaultUserAgent = "balloon/0.1"
	requestTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20
	uploadField      = "file"
)

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{http: client, userAgent: userAgent}
}

// Submit uploads the image as multipart form data and returns the task id
// assigned by the service. It makes exactly one request and never retries.
func (c *Client) Submit(ctx context.Context, submissionURL string, upload Upload) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if len(upload.Content) == 0 || strings.TrimSpace(upload.Filename) == "" {
		return "", ErrEmptyUpload
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(uploadField, filepath.Base(upload.Filename))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submissionURL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var payload SubmitResponse
	if err := c.do(req, "submit", &payload); err != nil {
		return "", err
	}
	taskID := strings.TrimSpace(payload.TaskID)
	if taskID == "" {
		return "", &Error{Op: "submit", Kind: KindProtocol, Message: "response missing task_id"}
	}
	return taskID, nil
}

// FetchResult queries the status of a submitted job.
func (c *Client) FetchResult(ctx context.Context, resultURL string) (ResultResponse, error) {
	if c == nil {
		return ResultResponse{}, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return ResultResponse{}, fmt.Errorf("create request: %w", err)
	}

	var payload ResultResponse
	if err := c.do(req, "poll", &payload); err != nil {
		return ResultResponse{}, err
	}
	if strings.TrimSpace(payload.Status) == "" {
		return ResultResponse{}, &Error{Op: "poll", Kind: KindProtocol, Message: "response missing status"}
	}
	return payload, nil
}

// Health probes the service liveness endpoint.
func (c *Client) Health(ctx context.Context, healthURL string) (HealthResponse, error) {
	if c == nil {
		return HealthResponse{}, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("create request: %w", err)
	}
	var payload HealthResponse
	if err := c.do(req, "health", &payload); err != nil {
		return HealthResponse{}, err
	}
	return payload, nil
}

func (c *Client) do(req *http.Request, op string, dest any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Message: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(op, resp.StatusCode, relPath(req.URL))
		var detail struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &detail) == nil {
			apiErr.Message += ": " + strings.TrimSpace(detail.Error)
			apiErr.Message = strings.TrimSuffix(apiErr.Message, ": ")
		}
		return apiErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{Op: op, Kind: KindProtocol, Message: "decode response", Err: err}
	}
	return nil
}

func relPath(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
