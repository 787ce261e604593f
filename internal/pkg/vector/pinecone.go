package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Vector is one index entry: id, embedding values and denormalized metadata.
type Vector struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Match is one similarity-query result, highest score first.
type Match struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Client talks to a Pinecone index data plane, scoped to one namespace.
// All bulk operations (deleteAll, batch upsert) go through the same raw HTTP
// path the per-id operations use.
type Client struct {
	host      string
	apiKey    string
	namespace string
	httpc     *http.Client
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("pinecone error %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a namespace-scoped Pinecone client. host is the index
// data-plane endpoint (e.g. https://tikblok-xxxx.svc.pinecone.io).
func NewClient(host, apiKey, namespace string) *Client {
	return &Client{
		host:      strings.TrimRight(host, "/"),
		apiKey:    apiKey,
		namespace: namespace,
		httpc:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Upsert inserts or fully replaces one entry. No partial updates: the vector
// and metadata of an existing id are overwritten as a whole.
func (c *Client) Upsert(ctx context.Context, v Vector) error {
	return c.UpsertBatch(ctx, []Vector{v})
}

// UpsertBatch inserts or replaces a batch of entries in one call.
func (c *Client) UpsertBatch(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	body, _ := json.Marshal(map[string]interface{}{
		"vectors":   vectors,
		"namespace": c.namespace,
	})
	_, err := c.do(ctx, http.MethodPost, "/vectors/upsert", body)
	return err
}

// Delete removes one entry by id. Deleting an absent id is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	body, _ := json.Marshal(map[string]interface{}{
		"ids":       []string{id},
		"namespace": c.namespace,
	})
	_, err := c.do(ctx, http.MethodPost, "/vectors/delete", body)
	return err
}

// DeleteAll wipes the whole namespace.
func (c *Client) DeleteAll(ctx context.Context) error {
	body, _ := json.Marshal(map[string]interface{}{
		"deleteAll": true,
		"namespace": c.namespace,
	})
	_, err := c.do(ctx, http.MethodPost, "/vectors/delete", body)
	return err
}

// Query returns up to topK nearest entries by similarity, best first.
func (c *Client) Query(ctx context.Context, vec []float32, topK int) ([]Match, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"vector":          vec,
		"topK":            topK,
		"includeMetadata": true,
		"namespace":       c.namespace,
	})
	data, err := c.do(ctx, http.MethodPost, "/query", body)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Matches []Match `json:"matches"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return resp.Matches, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
