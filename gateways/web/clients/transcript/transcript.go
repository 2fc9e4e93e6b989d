package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/echoscribe/backend/config/web"
	"github.com/echoscribe/backend/services/transcript/entity"
)

// ErrNotFound mirrors the service's 404 for unknown transcript IDs.
var ErrNotFound = errors.New("transcript not found")

// Client is the HTTP client for the internal transcript service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg *config.ServiceConfig, log *slog.Logger) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Url, cfg.Port),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

func (c *Client) Create(ctx context.Context, title string) (*entity.Transcript, error) {
	return c.doTranscript(ctx, http.MethodPost, "/api/v1/transcripts",
		&entity.CreateTranscriptRequest{Title: title})
}

func (c *Client) Get(ctx context.Context, id string) (*entity.Transcript, error) {
	return c.doTranscript(ctx, http.MethodGet, "/api/v1/transcripts/"+id, nil)
}

func (c *Client) List(ctx context.Context) ([]*entity.Transcript, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/transcripts", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list []*entity.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode transcript list: %w", err)
	}
	return list, nil
}

func (c *Client) ReplaceText(ctx context.Context, id, text string) (*entity.Transcript, error) {
	return c.doTranscript(ctx, http.MethodPut, "/api/v1/transcripts/"+id+"/text",
		&entity.ReplaceTextRequest{Text: text})
}

func (c *Client) AppendText(ctx context.Context, id, text string) (*entity.Transcript, error) {
	return c.doTranscript(ctx, http.MethodPost, "/api/v1/transcripts/"+id+"/append",
		&entity.AppendTextRequest{Text: text})
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/v1/transcripts/"+id, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) doTranscript(ctx context.Context, method, path string, body any) (*entity.Transcript, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var t entity.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return &t, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript service request failed: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("transcript service returned error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("path", path))
		return nil, fmt.Errorf("transcript service status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}
