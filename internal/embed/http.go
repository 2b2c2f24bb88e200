package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider generates embeddings via HTTP endpoints: an OpenAI-compatible
// /v1/embeddings endpoint for dense vectors and, optionally, a TEI-style
// /embed_sparse endpoint for sparse vectors.
type HTTPProvider struct {
	denseURL  string
	sparseURL string
	model     string
	dims      int
	client    *http.Client
}

// NewHTTPProvider creates an HTTP-backed provider. sparseURL may be empty, in
// which case the provider is dense-only.
func NewHTTPProvider(denseURL, sparseURL, model string, dims int) *HTTPProvider {
	return &HTTPProvider{
		denseURL:  denseURL,
		sparseURL: sparseURL,
		model:     model,
		dims:      dims,
		client: &http.Client{
			Timeout: 15 * time.Second, // Reasonable timeout for embedding generation
		},
	}
}

func (p *HTTPProvider) Dimensions() int { return p.dims }

func (p *HTTPProvider) HasSparse() bool { return p.sparseURL != "" }

// EmbedDense converts text to a dense vector embedding.
func (p *HTTPProvider) EmbedDense(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]interface{}{
		"input": text,
		"model": p.model,
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := p.post(ctx, p.denseURL, reqBody, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	if p.dims > 0 && len(result.Data[0].Embedding) != p.dims {
		return nil, fmt.Errorf("expected %d dimensions, got %d", p.dims, len(result.Data[0].Embedding))
	}
	return result.Data[0].Embedding, nil
}

// EmbedSparse converts text to a sparse (index, value) embedding.
func (p *HTTPProvider) EmbedSparse(ctx context.Context, text string) (SparseVector, error) {
	if p.sparseURL == "" {
		return SparseVector{}, ErrSparseUnsupported
	}

	reqBody := map[string]interface{}{
		"inputs": text,
	}

	// TEI returns one list of {index, value} entries per input.
	var result [][]struct {
		Index uint32  `json:"index"`
		Value float32 `json:"value"`
	}
	if err := p.post(ctx, p.sparseURL, reqBody, &result); err != nil {
		return SparseVector{}, err
	}
	if len(result) == 0 {
		return SparseVector{}, fmt.Errorf("no sparse embeddings returned")
	}

	vec := SparseVector{
		Indices: make([]uint32, 0, len(result[0])),
		Values:  make([]float32, 0, len(result[0])),
	}
	for _, entry := range result[0] {
		vec.Indices = append(vec.Indices, entry.Index)
		vec.Values = append(vec.Values, entry.Value)
	}
	return vec, nil
}

func (p *HTTPProvider) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
