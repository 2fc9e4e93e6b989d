package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/echoscribe/backend/config/web"
	"github.com/echoscribe/backend/pkg/logger"
)

func newTestClient(baseURL string) *Client {
	return New(&config.ModelConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Name:    "test-model",
	}, logger.Default())
}

func sseChunk(text string) string {
	return `data: {"candidates":[{"content":{"parts":[{"text":` + mustJSON(text) + `}]}}]}` + "\n\n"
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestStreamTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.NotNil(t, req.Contents[0].Parts[0].InlineData)
		assert.Equal(t, "audio/wav", req.Contents[0].Parts[0].InlineData.MimeType)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("[00:05] Speaker 1: Hel")))
		w.Write([]byte(sseChunk("lo\n[00:10] Speaker 2: Hi")))
	}))
	defer srv.Close()

	var deltas []string
	full, err := newTestClient(srv.URL).StreamTranscribe(context.Background(), []byte("RIFF"), "audio/wav", func(text string) {
		deltas = append(deltas, text)
	})
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Speaker 1: Hello\n[00:10] Speaker 2: Hi", full)
	assert.Equal(t, []string{"[00:05] Speaker 1: Hel", "lo\n[00:10] Speaker 2: Hi"}, deltas)
}

func TestStreamTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).StreamTranscribe(context.Background(), nil, "audio/wav", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStreamTranscribeCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).StreamTranscribe(ctx, nil, "audio/wav", nil)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Short summary."}}}},
			},
		})
	}))
	defer srv.Close()

	summary, err := newTestClient(srv.URL).Summarize(context.Background(), "[00:05] Alice: Hello")
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", summary)
}

func TestSummarizeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Summarize(context.Background(), "text")
	assert.Error(t, err)
}
