package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoscribe/backend/pkg/gen"
	"github.com/echoscribe/backend/pkg/logger"
	"github.com/echoscribe/backend/services/transcript/entity"
	"github.com/echoscribe/backend/services/transcript/storage"
	"github.com/echoscribe/backend/services/transcript/usecase"
)

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	New(usecase.New(storage.New(), gen.UUID()), logger.Default()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeTranscript(t *testing.T, resp *http.Response) entity.Transcript {
	t.Helper()
	defer resp.Body.Close()

	var out entity.Transcript
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestTranscriptLifecycle(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/transcripts", entity.CreateTranscriptRequest{Title: "Standup"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeTranscript(t, resp)
	require.NotEmpty(t, created.ID)

	resp = postJSON(t, srv.URL+"/api/v1/transcripts/"+created.ID+"/append",
		entity.AppendTextRequest{Text: "[00:05] Speaker 1: Hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	appended := decodeTranscript(t, resp)
	assert.Equal(t, "[00:05] Speaker 1: Hi", appended.Body)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/transcripts/"+created.ID+"/text",
		bytes.NewReader([]byte(`{"text":"replaced"}`)))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "replaced", decodeTranscript(t, resp).Body)

	resp, err = http.Get(srv.URL + "/api/v1/transcripts")
	require.NoError(t, err)
	var list []*entity.Transcript
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list, 1)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/transcripts/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/transcripts/" + created.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetUnknownTranscript(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/transcripts/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
