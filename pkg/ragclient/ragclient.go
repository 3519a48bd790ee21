package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ragbot/pkg/config"
)

const (
	defaultTextTimeout   = 30 * time.Second
	defaultUploadTimeout = 60 * time.Second

	// noResponseSentinel is surfaced when the backend answers 200 without a
	// response field. Treated as success, not failure.
	noResponseSentinel = "[no response from the knowledge service]"

	maxLoggedBody = 512
)

// User-facing fallback messages keyed by backend HTTP status. Raw response
// bodies and transport errors never reach the user.
var defaultStatusMessages = map[int]string{
	http.StatusNotFound:            "Sorry, the service is temporarily unavailable. Please try again later.",
	http.StatusInternalServerError: "Our system had an internal issue. We're fixing it, please try again soon.",
}

const (
	networkErrorMessage = "There was a network issue. Please check your connection and try again."
	unknownErrorMessage = "Something went wrong. Please try again later."
)

// UnknownErrorMessage returns the generic user-facing failure text, for
// callers that need a last-resort reply of their own.
func UnknownErrorMessage() string { return unknownErrorMessage }

// Result is the outcome of one backend query. ErrorDetail is always safe to
// show to an end user.
type Result struct {
	OK            bool
	Response      string
	Transcription string
	ErrorDetail   string
}

// Client calls the RAG backend over HTTP. Stateless; safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	textTimeout    time.Duration
	uploadTimeout  time.Duration
	statusMessages map[int]string
	log            *slog.Logger
}

// New validates RAG configuration and constructs a client.
func New(cfg config.RAGConfig, log *slog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("rag.base_url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse rag.base_url: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}

	textTimeout := defaultTextTimeout
	if cfg.TextTimeoutSeconds > 0 {
		textTimeout = time.Duration(cfg.TextTimeoutSeconds) * time.Second
	}
	uploadTimeout := defaultUploadTimeout
	if cfg.UploadTimeoutSeconds > 0 {
		uploadTimeout = time.Duration(cfg.UploadTimeoutSeconds) * time.Second
	}

	statusMessages := make(map[int]string, len(defaultStatusMessages))
	for status, message := range defaultStatusMessages {
		statusMessages[status] = message
	}
	for key, message := range cfg.StatusMessages {
		status, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("rag.status_messages key %q is not an HTTP status", key)
		}
		statusMessages[status] = message
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{},
		textTimeout:    textTimeout,
		uploadTimeout:  uploadTimeout,
		statusMessages: statusMessages,
		log:            log.With("component", "ragclient"),
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// QueryText sends a plain text query to the backend.
func (c *Client) QueryText(ctx context.Context, query string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.textTimeout)
	defer cancel()

	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text", strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build text request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, "query_text"), nil
}

// QueryTextWithFile sends a query together with a binary attachment.
func (c *Client) QueryTextWithFile(ctx context.Context, query string, file []byte, filename string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("query", query); err != nil {
		return Result{}, fmt.Errorf("write query field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Result{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return Result{}, fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/file", body)
	if err != nil {
		return Result{}, fmt.Errorf("build file request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "query_text_with_file"), nil
}

// SpeechToText sends binary audio for transcription plus answering.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, filename string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio_file", filename)
	if err != nil {
		return Result{}, fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return Result{}, fmt.Errorf("write audio part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech", body)
	if err != nil {
		return Result{}, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "speech_to_text"), nil
}

type backendResponse struct {
	Response      *string `json:"response"`
	Transcription string  `json:"transcription"`
	Detail        string  `json:"detail"`
}

// do executes one backend request and folds every failure mode into a Result
// whose ErrorDetail is user-safe. Transport errors and non-200 bodies are
// logged here with full detail; no retries are performed.
func (c *Client) do(req *http.Request, operation string) Result {
	log := c.log.With("operation", operation)
	startedAt := time.Now()
	log.Debug("backend request started", "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("backend request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return Result{ErrorDetail: networkErrorMessage}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("backend response read failed", "status", resp.StatusCode, "error", err)
		return Result{ErrorDetail: networkErrorMessage}
	}

	var parsed backendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		log.Error("backend response malformed", "status", resp.StatusCode, "body", previewBody(raw), "error", err)
		return Result{ErrorDetail: unknownErrorMessage}
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("backend request rejected",
			"status", resp.StatusCode,
			"duration_ms", time.Since(startedAt).Milliseconds(),
			"body", previewBody(raw),
		)
		return Result{ErrorDetail: c.statusError(resp.StatusCode, parsed.Detail)}
	}

	response := noResponseSentinel
	if parsed.Response != nil {
		response = *parsed.Response
	}

	log.Debug("backend request completed",
		"duration_ms", time.Since(startedAt).Milliseconds(),
		"response_length", len(response),
	)

	return Result{OK: true, Response: response, Transcription: parsed.Transcription}
}

// statusError prefers the backend-supplied detail when present, else the
// status-keyed message, else the generic fallback.
func (c *Client) statusError(status int, detail string) string {
	if strings.TrimSpace(detail) != "" {
		return detail
	}
	if message, ok := c.statusMessages[status]; ok {
		return message
	}
	return unknownErrorMessage
}

func previewBody(raw []byte) string {
	if len(raw) <= maxLoggedBody {
		return string(raw)
	}
	return string(raw[:maxLoggedBody]) + "..."
}
