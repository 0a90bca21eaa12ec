package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	if _, err := NewClient("ftp://example.com", time.Second, nil); err == nil {
		t.Error("Expected error for ftp scheme")
	}
}

func TestSubmitSendsMultipart(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.7 test"), 0644); err != nil {
		t.Fatal(err)
	}

	var gotLevel, gotFile string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compress" {
			t.Errorf("path = %s, want /compress", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		gotLevel = r.FormValue("compression_level")
		if f, hdr, err := r.FormFile("pdf"); err == nil {
			gotFile = hdr.Filename
			_ = f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"processing","message":"Compressing PDF..."}`))
	})

	resp, err := c.Submit(context.Background(), Form{
		Tool:     "compress",
		Endpoint: "/compress",
		Fields:   []Field{{Name: "compression_level", Value: "high"}},
		Files:    []FormFile{{Field: "pdf", Path: pdf}},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Status != StatusProcessing {
		t.Errorf("Status = %q, want processing", resp.Status)
	}
	if gotLevel != "high" {
		t.Errorf("compression_level = %q, want high", gotLevel)
	}
	if gotFile != "a.pdf" {
		t.Errorf("uploaded filename = %q, want a.pdf", gotFile)
	}
}

func TestSubmitNonJSONResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`{"status":"processing"}`))
	})

	_, err := c.Submit(context.Background(), Form{Tool: "merge", Endpoint: "/merge"})
	if !errors.Is(err, ErrNotJSON) {
		t.Errorf("Submit() error = %v, want ErrNotJSON", err)
	}
}

func TestSubmitNon2xxResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"status":"error","message":"File too large."}`))
	})

	_, err := c.Submit(context.Background(), Form{Tool: "merge", Endpoint: "/merge"})
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Submit() error = %v, want *HTTPStatusError", err)
	}
	if statusErr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Code = %d, want 413", statusErr.Code)
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Error("Expected HTTPStatusError to unwrap to ErrUnexpectedStatus")
	}
}

func TestSubmitErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"error","message":"No PDF file was uploaded."}`))
	})

	resp, err := c.Submit(context.Background(), Form{Tool: "compress", Endpoint: "/compress"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Status != StatusError || resp.Message != "No PDF file was uploaded." {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestSubmitMissingFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"processing"}`))
	})

	_, err := c.Submit(context.Background(), Form{
		Tool:     "compress",
		Endpoint: "/compress",
		Files:    []FormFile{{Field: "pdf", Path: filepath.Join(t.TempDir(), "missing.pdf")}},
	})
	if err == nil {
		t.Error("Expected error when the upload file does not exist")
	}
}

func TestSendEmail(t *testing.T) {
	var got EmailJob
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send_email" {
			t.Errorf("path = %s, want /send_email", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Decode() error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"processing","message":"Sending email..."}`))
	})

	job := EmailJob{Filename: "merged.pdf", Email: "a@example.com", Subject: "s", Message: "m"}
	resp, err := c.SendEmail(context.Background(), job)
	if err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}
	if got != job {
		t.Errorf("server received %+v, want %+v", got, job)
	}
	if resp.Status != StatusProcessing {
		t.Errorf("Status = %q, want processing", resp.Status)
	}
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/out.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4 result"))
	})

	dir := t.TempDir()
	var tracked int64
	path, err := c.Download(context.Background(), "/download/out.pdf", dir, func(size int64) io.Writer {
		return writerFunc(func(p []byte) (int, error) {
			tracked += int64(len(p))
			return len(p), nil
		})
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if filepath.Base(path) != "out.pdf" {
		t.Errorf("path = %s, want out.pdf", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 result" {
		t.Errorf("content = %q", data)
	}
	if tracked != int64(len(data)) {
		t.Errorf("tracked %d bytes, want %d", tracked, len(data))
	}
}

func TestDownloadNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFound)
	if _, err := c.Download(context.Background(), "/download/nope.pdf", t.TempDir(), nil); err == nil {
		t.Error("Expected error for 404 download")
	}
}

func TestDownloadTruncatedRemovesFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(1024))
		_, _ = w.Write([]byte("%PDF-1.4 partial"))
	})

	dir := t.TempDir()
	path, err := c.Download(context.Background(), "/download/out.pdf", dir, nil)
	if err == nil {
		t.Fatal("Expected error for a truncated body")
	}
	if path != "" {
		t.Errorf("Expected empty path on failure, got %s", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.pdf")); !os.IsNotExist(err) {
		t.Errorf("Expected partial file to be removed, stat error = %v", err)
	}
}

func TestSubmitRequestErrorStopsUpload(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(pdf, make([]byte, 1<<20), 0644); err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no request to reach the server")
	})

	before := runtime.NumGoroutine()
	var ctx context.Context // a nil context makes request construction fail
	_, err := c.Submit(ctx, Form{
		Tool:     "compress",
		Endpoint: "/compress",
		Files:    []FormFile{{Field: "file", Path: pdf}},
	})
	if err == nil {
		t.Fatal("Expected error for a nil context")
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("Expected the multipart writer to exit, goroutines %d > %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
