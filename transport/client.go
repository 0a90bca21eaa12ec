package transport

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
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnexpectedStatus is wrapped by HTTPStatusError for non-2xx responses
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrNotJSON is returned when a response is not application/json
	ErrNotJSON = errors.New("server returned non-JSON response")
)

// HTTPStatusError reports a non-2xx HTTP response
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("server responded with status: %d", e.Code)
}

func (e *HTTPStatusError) Unwrap() error { return ErrUnexpectedStatus }

// Field is one text field of a submission form
type Field struct {
	Name  string
	Value string
}

// FormFile is one file field of a submission form
type FormFile struct {
	Field string
	Path  string
}

// Form is a tool submission: the endpoint it posts to and its multipart body
type Form struct {
	Tool     string
	Endpoint string
	Fields   []Field
	Files    []FormFile
}

// Client issues request/response calls to the toolkit server
type Client struct {
	base     *url.URL
	http     *http.Client
	clientID string
	logger   *zap.SugaredLogger
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		base:     u,
		http:     &http.Client{Timeout: timeout},
		clientID: uuid.NewString(),
		logger:   logger,
	}, nil
}

// Resolve turns a server-relative link into an absolute URL
func (c *Client) Resolve(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", link, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// Submit posts the form as multipart data. The response only reports admission;
// progress and results arrive on the push channel.
func (c *Client) Submit(ctx context.Context, form Form) (*Response, error) {
	endpoint, err := c.Resolve(form.Endpoint)
	if err != nil {
		return nil, err
	}

	body, contentType := multipartBody(form)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	c.logger.Infow("Submitting form", "tool", form.Tool, "endpoint", endpoint, "files", len(form.Files))
	return c.do(req)
}

// SendEmail posts an email job as JSON
func (c *Client) SendEmail(ctx context.Context, job EmailJob) (*Response, error) {
	endpoint, err := c.Resolve("/send_email")
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	c.logger.Infow("Sending email", "filename", job.Filename, "to", job.Email)
	return c.do(req)
}

// Download fetches a result link into dir and returns the written path.
// When track is non-nil it receives the content length and returns a writer
// that observes the copied bytes. A failed download leaves no file behind.
func (c *Client) Download(ctx context.Context, link, dir string, track func(size int64) io.Writer) (written string, err error) {
	endpoint, err := c.Resolve(link)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPStatusError{Code: resp.StatusCode}
	}

	name := path.Base(req.URL.Path)
	if name == "/" || name == "." {
		name = "download.pdf"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(dir, name)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", target, cerr)
		}
		if err != nil {
			_ = os.Remove(target)
			written = ""
		}
	}()

	var w io.Writer = f
	if track != nil {
		w = io.MultiWriter(f, track(resp.ContentLength))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	c.logger.Infow("Downloaded result", "url", endpoint, "path", target)
	return target, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeResponse(resp)
}

// decodeResponse rejects non-2xx and non-JSON responses before touching the body
func decodeResponse(resp *http.Response) (*Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Code: resp.StatusCode}
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, ErrNotJSON
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// multipartBody streams the form through a pipe so large files are not buffered.
// Closing the returned reader stops the writer.
func multipartBody(form Form) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, form))
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, form Form) error {
	for _, field := range form.Fields {
		if err := mw.WriteField(field.Name, field.Value); err != nil {
			return err
		}
	}
	for _, file := range form.Files {
		if err := copyFilePart(mw, file); err != nil {
			return err
		}
	}
	return mw.Close()
}

func copyFilePart(mw *multipart.Writer, file FormFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer func() { _ = f.Close() }()

	part, err := mw.CreateFormFile(file.Field, filepath.Base(file.Path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to upload %s: %w", file.Path, err)
	}
	return nil
}
