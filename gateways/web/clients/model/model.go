package model

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/echoscribe/backend/config/web"
)

// transcribeInstruction asks the model for the line grammar the parser
// understands: bracketed clocks, "Speaker N" labels, "Unknown" fallback.
const transcribeInstruction = `You are a transcription engine. Transcribe the audio into lines of the form "[MM:SS] Speaker N: text", using "[HH:MM:SS]" past one hour. Label each distinct voice Speaker 1, Speaker 2 and so on; label a voice that cannot be attributed as Unknown. Output transcript lines only, no commentary.`

const summarizeInstruction = `Summarize the following meeting transcript. Keep the summary short and factual. List decisions and action items when present.`

// Client talks to a hosted generative-language API
// (generativelanguage.googleapis.com wire shape).
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg *config.ModelConfig, log *slog.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Name,
		httpClient: &http.Client{Timeout: 30 * time.Minute},
		log:        log,
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StreamTranscribe sends inline audio to the model and streams transcript
// text back. Every received chunk is passed to onDelta before the full
// accumulated text is returned. The call is cancellable through ctx.
func (c *Client) StreamTranscribe(ctx context.Context, audio []byte, mimeType string, onDelta func(text string)) (string, error) {
	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: transcribeInstruction}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(audio)}},
				{Text: "Transcribe this recording."},
			},
		}},
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, c.model)
	resp, err := c.post(ctx, url, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.log.Info("model stream opened",
		slog.String("model", c.model),
		slog.String("mime_type", mimeType),
		slog.Int("audio_bytes", len(audio)))

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			c.log.Warn("skipping unparseable stream chunk", slog.String("error", err.Error()))
			continue
		}
		if chunk.Error != nil {
			return full.String(), fmt.Errorf("model stream error %d: %s", chunk.Error.Code, chunk.Error.Message)
		}

		delta := chunkText(chunk)
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("failed to read model stream: %w", err)
	}

	return full.String(), nil
}

// Summarize runs a single-shot generation over the canonical transcript text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: summarizeInstruction + "\n\n" + text}},
		}},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	resp, err := c.post(ctx, url, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("model error %d: %s", out.Error.Code, out.Error.Message)
	}

	summary := chunkText(out)
	if summary == "" {
		return "", fmt.Errorf("model returned no summary text")
	}
	return summary, nil
}

func (c *Client) post(ctx context.Context, url string, body generateRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("model api status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

func chunkText(resp generateResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
