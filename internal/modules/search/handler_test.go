package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tikblok/core/internal/pkg/vector"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	matches   []vector.Match
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]vector.Match, error) {
	f.lastQuery = query
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func newSearchRouter(s Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v2")
	NewHandler(s, zap.NewNop()).RegisterRoutes(api)
	return r
}

func doSearch(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v2/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	for _, body := range []string{`{}`, `{"query": ""}`, `{"query": "   "}`, `not json`} {
		w := doSearch(newSearchRouter(&fakeSearcher{}), body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "body: %s", body)
		assert.Contains(t, w.Body.String(), "query must be a non-empty string")
	}
}

func TestSearchDefaultsLimitToTen(t *testing.T) {
	s := &fakeSearcher{}
	w := doSearch(newSearchRouter(s), `{"query": "cave sounds"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cave sounds", s.lastQuery)
	assert.Equal(t, 10, s.lastLimit)
}

func TestSearchHonorsExplicitLimit(t *testing.T) {
	s := &fakeSearcher{}
	doSearch(newSearchRouter(s), `{"query": "cave sounds", "limit": 3}`)
	assert.Equal(t, 3, s.lastLimit)
}

func TestSearchNonPositiveLimitFallsBack(t *testing.T) {
	s := &fakeSearcher{}
	doSearch(newSearchRouter(s), `{"query": "cave sounds", "limit": -5}`)
	assert.Equal(t, 10, s.lastLimit)
}

func TestSearchResultShapePreservesOrder(t *testing.T) {
	s := &fakeSearcher{matches: []vector.Match{
		{ID: "v1", Score: 0.92, Metadata: map[string]interface{}{"title": "one"}},
		{ID: "v2", Score: 0.71},
	}}
	w := doSearch(newSearchRouter(s), `{"query": "redstone"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []struct {
			ID       string                 `json:"id"`
			Score    float64                `json:"score"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, "v1", body.Results[0].ID)
	assert.Equal(t, 0.92, body.Results[0].Score)
	assert.Equal(t, "one", body.Results[0].Metadata["title"])
	assert.Equal(t, "v2", body.Results[1].ID)
}

func TestSearchEmptyResultsIsOK(t *testing.T) {
	w := doSearch(newSearchRouter(&fakeSearcher{}), `{"query": "nothing matches"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results": []}`, w.Body.String())
}

func TestSearchDownstreamErrorIsOpaque(t *testing.T) {
	s := &fakeSearcher{err: errors.New("pinecone: 503 upstream backoff")}
	w := doSearch(newSearchRouter(s), `{"query": "redstone"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to search videos")
	assert.NotContains(t, w.Body.String(), "pinecone")
	assert.NotContains(t, w.Body.String(), "503")
}
