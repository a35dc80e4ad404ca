package connection

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/filedrop/internal/server/httpserver/handler"
)

const userAgent = "filedrop-cli/1.0"

// APIError is an error envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// HTTPClient talks to a FileDrop server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for server. A bare host:port gets an
// http:// scheme. tlsCfg may be nil. A zero timeout means no timeout,
// which suits large transfers.
func NewHTTPClient(server string, tlsCfg *tls.Config, timeout time.Duration) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request against a server path.
func (c *HTTPClient) Get(ctx context.Context, p string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+p, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return c.client.Do(req)
}

// Upload streams content as a multipart upload named filename.
func (c *HTTPClient) Upload(ctx context.Context, filename string, content io.Reader, password string) (*handler.UploadResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, filename, content, password))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("upload: %w", err)
	}

	var result handler.UploadResponse
	if err := ParseResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func writeUploadForm(mw *multipart.Writer, filename string, content io.Reader, password string) error {
	if password != "" {
		if err := mw.WriteField("file_password", password); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	return mw.Close()
}

// Download is an open download response. The caller must close Body.
type Download struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64  // -1 when unknown
	Digest      string // hex SHA-256, empty when not sent
}

// Download opens the object addressed by ref, which is either a token or
// a full download URL.
func (c *HTTPClient) Download(ctx context.Context, ref, password string) (*Download, error) {
	target, err := c.downloadURL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if password != "" {
		req.Header.Set("X-File-Password", password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, ParseResponse(resp, nil)
	}

	d := &Download{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		Filename:    "download",
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := path.Base(params["filename"]); name != "" && name != "." && name != "/" {
			d.Filename = name
		}
	}
	if digest, ok := strings.CutPrefix(resp.Header.Get("X-Content-Digest"), "sha256="); ok {
		d.Digest = digest
	}
	return d, nil
}

func (c *HTTPClient) downloadURL(ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid download URL: %w", err)
		}
		return u.String(), nil
	}
	if ref == "" || strings.ContainsAny(ref, "/?#") {
		return "", fmt.Errorf("invalid token %q", ref)
	}
	return c.baseURL + "/download/" + url.PathEscape(ref), nil
}

// Status fetches GET /status.
func (c *HTTPClient) Status(ctx context.Context) (*handler.StatusResponse, error) {
	resp, err := c.Get(ctx, "/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var result handler.StatusResponse
	if err := ParseResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health fetches GET /health.
func (c *HTTPClient) Health(ctx context.Context) (*handler.HealthResponse, error) {
	resp, err := c.Get(ctx, "/health")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var result handler.HealthResponse
	if err := ParseResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseResponse decodes the envelope of resp into target, or returns an
// *APIError for error statuses. The body is always closed.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var env struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Code == "" {
			return &APIError{
				Status:  resp.StatusCode,
				Code:    strconv.Itoa(resp.StatusCode),
				Message: http.StatusText(resp.StatusCode),
			}
		}
		apiErr := &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
		if env.Details != nil {
			apiErr.Details = fmt.Sprint(env.Details)
		}
		return apiErr
	}

	if target == nil {
		return nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if len(env.Data) == 0 {
		return errors.New("parse response: empty data")
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
