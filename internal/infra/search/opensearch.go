package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Embedder turns text into the vector the k-NN index is built on. The
// OpenAI client satisfies this.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Client implements the Retriever port over an OpenSearch k-NN index of
// rule passages, and the ingestion side that populates it.
type Client struct {
	os       *opensearch.Client
	index    string
	embedder Embedder
}

func New(endpoint, username, password, index string, embedder Embedder) (*Client, error) {
	cli, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{endpoint},
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}
	return &Client{os: cli, index: index, embedder: embedder}, nil
}

// Search embeds the query and runs a top-k k-NN search, returning the
// content of the matching passages.
func (c *Client) Search(ctx context.Context, query string, k int) ([]string, error) {
	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"size": k,
		"query": map[string]any{
			"knn": map[string]any{
				"embedding": map[string]any{
					"vector": vector,
					"k":      k,
				},
			},
		},
		"_source": []string{"content"},
	})
	if err != nil {
		return nil, err
	}

	res, err := c.os.Search(
		c.os.Search.WithContext(ctx),
		c.os.Search.WithIndex(c.index),
		c.os.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("similarity search: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Content string `json:"content"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		docs = append(docs, h.Source.Content)
	}
	return docs, nil
}

// EnsureIndex creates the k-NN index if it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context, dimension int) error {
	exists, err := c.os.Indices.Exists(
		[]string{c.index},
		c.os.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	mapping := fmt.Sprintf(`{
  "settings": {"index": {"knn": true}},
  "mappings": {
    "properties": {
      "content": {"type": "text"},
      "embedding": {"type": "knn_vector", "dimension": %d}
    }
  }
}`, dimension)

	res, err := c.os.Indices.Create(
		c.index,
		c.os.Indices.Create.WithContext(ctx),
		c.os.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", c.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", c.index, res.String())
	}
	return nil
}

// IndexPassage embeds one rule passage and stores it under the given
// document ID.
func (c *Client) IndexPassage(ctx context.Context, id, content string) error {
	vector, err := c.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed passage: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"content":   content,
		"embedding": vector,
	})
	if err != nil {
		return err
	}

	res, err := c.os.Index(
		c.index,
		strings.NewReader(string(body)),
		c.os.Index.WithContext(ctx),
		c.os.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("index passage %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index passage %s: %s", id, res.String())
	}
	return nil
}

// Ping is used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.os.Ping(c.os.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("opensearch ping: %s", res.String())
	}
	return nil
}
