package translator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_SubmitSendsMultipartAndReturnsTaskID(t *testing.T) {
	t.Parallel()

	var (
		gotMethod   string
		gotPath     string
		gotFilename string
		gotContent  string
		gotAgent    string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotContent = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(SubmitResponse{TaskID: "abc"})
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	id, err := c.Submit(ctx, server.URL+"/translate-manga", Upload{Filename: "/tmp/page 1.png", Content: []byte("png-bytes")})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if id != "abc" {
		t.Fatalf("task id = %q, want abc", id)
	}
	if gotMethod != http.MethodPost || gotPath != "/translate-manga" {
		t.Fatalf("request = %s %s, want POST /translate-manga", gotMethod, gotPath)
	}
	if gotFilename != "page 1.png" || gotContent != "png-bytes" {
		t.Fatalf("upload = %q/%q, want page 1.png/png-bytes", gotFilename, gotContent)
	}
	if !strings.HasPrefix(gotAgent, "balloon/") {
		t.Fatalf("User-Agent = %q, want balloon/*", gotAgent)
	}
}

func TestClient_SubmitFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantText string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, KindNetwork, "returned status 500: boom"},
		{"unprocessable", http.StatusUnprocessableEntity, `not json`, KindNetwork, "returned status 422"},
		{"non json body", http.StatusAccepted, `<html>`, KindProtocol, "decode response"},
		{"missing task id", http.StatusAccepted, `{"id":"abc"}`, KindProtocol, "missing task_id"},
		{"empty task id", http.StatusOK, `{"task_id":"  "}`, KindProtocol, "missing task_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(Config{}).Submit(context.Background(), server.URL, Upload{Filename: "a.png", Content: []byte("x")})
			if err == nil {
				t.Fatalf("Submit returned nil error, want %s error", tt.wantKind)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Fatalf("KindOf = %s, want %s (err %v)", got, tt.wantKind, err)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestClient_SubmitStatusCodeRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(Config{}).Submit(context.Background(), server.URL, Upload{Filename: "a.png", Content: []byte("x")})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Op != "submit" {
		t.Fatalf("error = %#v, want submit status 503", apiErr)
	}
}

func TestClient_SubmitNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Config{Timeout: time.Second}).Submit(context.Background(), url, Upload{Filename: "a.png", Content: []byte("x")})
	if err == nil {
		t.Fatalf("Submit returned nil error, want network error")
	}
	if KindOf(err) != KindNetwork {
		t.Fatalf("KindOf = %s, want network", KindOf(err))
	}
	if !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("error = %q, want execute request", err.Error())
	}
}

func TestClient_SubmitRejectsEmptyUpload(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := NewClient(Config{})
	for _, upload := range []Upload{{}, {Filename: "a.png"}, {Content: []byte("x")}} {
		if _, err := c.Submit(context.Background(), server.URL, upload); !errors.Is(err, ErrEmptyUpload) {
			t.Fatalf("Submit(%#v) error = %v, want ErrEmptyUpload", upload, err)
		}
	}
	if calls != 0 {
		t.Fatalf("server calls = %d, want 0", calls)
	}
}

func TestClient_FetchResult(t *testing.T) {
	t.Parallel()

	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		switch gotID {
		case "done":
			_, _ = w.Write([]byte(`{"status":"done","bubbles":[{"original_text":"A","translated_text":"B","confidence":0.9}]}`))
		case "failed":
			_, _ = w.Write([]byte(`{"status":"error","error":"ocr crashed"}`))
		case "busy":
			_, _ = w.Write([]byte(`{"status":"processing"}`))
		case "nostatus":
			_, _ = w.Write([]byte(`{"bubbles":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Task not found"}`))
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{})
	ctx := context.Background()

	res, err := c.FetchResult(ctx, server.URL+"/result?id=done")
	if err != nil {
		t.Fatalf("FetchResult(done) returned error: %v", err)
	}
	if !res.IsDone() || len(res.Bubbles) != 1 || res.Bubbles[0].TranslatedText != "B" || res.Bubbles[0].Confidence != 0.9 {
		t.Fatalf("FetchResult(done) = %#v, want one bubble", res)
	}

	res, err = c.FetchResult(ctx, server.URL+"/result?id=failed")
	if err != nil {
		t.Fatalf("FetchResult(failed) returned error: %v", err)
	}
	if !res.IsFailed() || res.Error != "ocr crashed" {
		t.Fatalf("FetchResult(failed) = %#v, want error status", res)
	}

	res, err = c.FetchResult(ctx, server.URL+"/result?id=busy")
	if err != nil {
		t.Fatalf("FetchResult(busy) returned error: %v", err)
	}
	if res.IsDone() || res.IsFailed() || res.NormalizedStatus() != StatusProcessing {
		t.Fatalf("FetchResult(busy) = %#v, want processing", res)
	}

	_, err = c.FetchResult(ctx, server.URL+"/result?id=nostatus")
	if KindOf(err) != KindProtocol {
		t.Fatalf("FetchResult(nostatus) kind = %s, want protocol (err %v)", KindOf(err), err)
	}

	_, err = c.FetchResult(ctx, server.URL+"/result?id=unknown")
	if err == nil || !strings.Contains(err.Error(), "returned status 404: Task not found") {
		t.Fatalf("FetchResult(unknown) error = %v, want status 404", err)
	}
	if KindOf(err) != KindNetwork {
		t.Fatalf("FetchResult(unknown) kind = %s, want network", KindOf(err))
	}
	if gotID != "unknown" {
		t.Fatalf("id query = %q, want unknown", gotID)
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	res, err := NewClient(Config{}).Health(context.Background(), server.URL+"/health")
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Health = %#v, want ok", res)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(Config{}).FetchResult(ctx, server.URL+"/result?id=x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("FetchResult error = %v, want context.Canceled", err)
	}
}
