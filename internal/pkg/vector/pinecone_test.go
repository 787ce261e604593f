package vector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path   string
	apiKey string
	body   map[string]interface{}
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]interface{}
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &body))
		}
		requests = append(requests, recordedRequest{
			path:   r.URL.Path,
			apiKey: r.Header.Get("Api-Key"),
			body:   body,
		})
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestUpsertBatchRequest(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{"upsertedCount": 2}`)
	c := NewClient(srv.URL+"/", "test-key", "videos")

	err := c.UpsertBatch(context.Background(), []Vector{
		{ID: "v1", Values: []float32{0.1, 0.2}, Metadata: map[string]interface{}{"title": "one"}},
		{ID: "v2", Values: []float32{0.3, 0.4}},
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/vectors/upsert", req.path)
	assert.Equal(t, "test-key", req.apiKey)
	assert.Equal(t, "videos", req.body["namespace"])

	vectors, ok := req.body["vectors"].([]interface{})
	require.True(t, ok)
	require.Len(t, vectors, 2)
	first := vectors[0].(map[string]interface{})
	assert.Equal(t, "v1", first["id"])
	assert.Equal(t, "one", first["metadata"].(map[string]interface{})["title"])
}

func TestUpsertBatchEmptyIsANoOp(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, "test-key", "videos")

	require.NoError(t, c.UpsertBatch(context.Background(), nil))
	assert.Empty(t, *requests)
}

func TestDeleteRequest(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, "test-key", "videos")

	require.NoError(t, c.Delete(context.Background(), "v1"))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/vectors/delete", req.path)
	assert.Equal(t, []interface{}{"v1"}, req.body["ids"])
	assert.Equal(t, "videos", req.body["namespace"])
	assert.Nil(t, req.body["deleteAll"])
}

func TestDeleteAllRequest(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, "test-key", "videos")

	require.NoError(t, c.DeleteAll(context.Background()))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/vectors/delete", req.path)
	assert.Equal(t, true, req.body["deleteAll"])
	assert.Equal(t, "videos", req.body["namespace"])
	assert.Nil(t, req.body["ids"])
}

func TestQueryRequestAndDecode(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{
		"matches": [
			{"id": "v1", "score": 0.93, "metadata": {"title": "best"}},
			{"id": "v2", "score": 0.41}
		]
	}`)
	c := NewClient(srv.URL, "test-key", "videos")

	matches, err := c.Query(context.Background(), []float32{0.5, 0.5}, 10)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/query", req.path)
	assert.Equal(t, float64(10), req.body["topK"])
	assert.Equal(t, true, req.body["includeMetadata"])
	assert.Equal(t, "videos", req.body["namespace"])

	require.Len(t, matches, 2)
	assert.Equal(t, "v1", matches[0].ID)
	assert.Equal(t, 0.93, matches[0].Score)
	assert.Equal(t, "best", matches[0].Metadata["title"])
	assert.Nil(t, matches[1].Metadata)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusTooManyRequests, `rate limited`)
	c := NewClient(srv.URL, "test-key", "videos")

	err := c.Delete(context.Background(), "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}
