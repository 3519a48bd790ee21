package ragclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ragbot/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg config.RAGConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	client, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return client
}

func TestQueryTextSuccess(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/text" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotQuery = r.PostFormValue("query")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": "ok"}`)
	}, config.RAGConfig{})

	result, err := client.QueryText(context.Background(), "hi")
	if err != nil {
		t.Fatalf("QueryText error: %v", err)
	}
	if gotQuery != "hi" {
		t.Fatalf("backend received query %q, want hi", gotQuery)
	}
	if !result.OK || result.Response != "ok" {
		t.Fatalf("result = %+v, want OK with response ok", result)
	}
}

func TestQueryTextMissingResponseFieldIsSentinelSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"other": "field"}`)
	}, config.RAGConfig{})

	result, err := client.QueryText(context.Background(), "hi")
	if err != nil {
		t.Fatalf("QueryText error: %v", err)
	}
	if !result.OK {
		t.Fatal("missing response field must still be a success")
	}
	if result.Response != noResponseSentinel {
		t.Fatalf("response = %q, want sentinel", result.Response)
	}
}

func TestQueryTextServerErrorNeverLeaksBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `panic: nil pointer dereference at handler.go:42`)
	}, config.RAGConfig{})

	result, err := client.QueryText(context.Background(), "hi")
	if err != nil {
		t.Fatalf("QueryText error: %v", err)
	}
	if result.OK {
		t.Fatal("500 must be a failure")
	}
	if result.ErrorDetail != defaultStatusMessages[http.StatusInternalServerError] {
		t.Fatalf("error detail = %q, want the configured 500 message", result.ErrorDetail)
	}
	if strings.Contains(result.ErrorDetail, "panic") {
		t.Fatal("raw response body leaked into the user-facing message")
	}
}

func TestQueryTextPrefersBackendDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail": "Query too long, please shorten it."}`)
	}, config.RAGConfig{})

	result, _ := client.QueryText(context.Background(), "hi")
	if result.ErrorDetail != "Query too long, please shorten it." {
		t.Fatalf("error detail = %q, want the backend detail", result.ErrorDetail)
	}
}

func TestStatusMessageOverrides(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}, config.RAGConfig{StatusMessages: map[string]string{"418": "The kettle is busy."}})

	result, _ := client.QueryText(context.Background(), "hi")
	if result.ErrorDetail != "The kettle is busy." {
		t.Fatalf("error detail = %q, want override", result.ErrorDetail)
	}
}

func TestQueryTextTransportFailure(t *testing.T) {
	client, err := New(config.RAGConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	result, err := client.QueryText(context.Background(), "hi")
	if err != nil {
		t.Fatalf("transport failure must fold into the result, got %v", err)
	}
	if result.OK {
		t.Fatal("transport failure must be a failure result")
	}
	if result.ErrorDetail != networkErrorMessage {
		t.Fatalf("error detail = %q, want network message", result.ErrorDetail)
	}
}

func TestQueryTextWithFileMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file" {
			t.Errorf("path = %s, want /file", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.PostFormValue("query"); got != "summarize" {
			t.Errorf("query field = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "doc.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "pdf-bytes" {
			t.Errorf("file content = %q", content)
		}
		io.WriteString(w, `{"response": "a summary"}`)
	}, config.RAGConfig{})

	result, err := client.QueryTextWithFile(context.Background(), "summarize", []byte("pdf-bytes"), "doc.pdf")
	if err != nil {
		t.Fatalf("QueryTextWithFile error: %v", err)
	}
	if !result.OK || result.Response != "a summary" {
		t.Fatalf("result = %+v", result)
	}
}

func TestSpeechToTextSurfacesBothFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech" {
			t.Errorf("path = %s, want /speech", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if _, header, err := r.FormFile("audio_file"); err != nil {
			t.Errorf("audio part: %v", err)
		} else if header.Filename != "audio.ogg" {
			t.Errorf("filename = %q", header.Filename)
		}
		io.WriteString(w, `{"transcription": "what is rag", "response": "RAG is..."}`)
	}, config.RAGConfig{})

	result, err := client.SpeechToText(context.Background(), []byte("opus"), "audio.ogg")
	if err != nil {
		t.Fatalf("SpeechToText error: %v", err)
	}
	if result.Transcription != "what is rag" || result.Response != "RAG is..." {
		t.Fatalf("result = %+v", result)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(config.RAGConfig{}, nil); err == nil {
		t.Fatal("expected error for missing base_url")
	}
}

func TestNewRejectsBadStatusKey(t *testing.T) {
	cfg := config.RAGConfig{
		BaseURL:        "http://localhost:8000",
		StatusMessages: map[string]string{"teapot": "nope"},
	}
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for non-numeric status key")
	}
}
