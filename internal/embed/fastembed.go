package embed

import (
	"context"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedProvider runs a local ONNX embedding model. Dense only; the
// retrieval engine falls back to dense-only search when sparse vectors are
// unavailable.
type FastEmbedProvider struct {
	model *fastembed.FlagEmbedding
	dims  int
}

// NewFastEmbedProvider loads the default bge-small-en-v1.5 model, downloading
// it into cacheDir on first use.
func NewFastEmbedProvider(cacheDir string, dims int) (*FastEmbedProvider, error) {
	model, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:    fastembed.BGESmallENV15,
		CacheDir: cacheDir,
	})
	if err != nil {
		return nil, err
	}
	return &FastEmbedProvider{model: model, dims: dims}, nil
}

func (p *FastEmbedProvider) Dimensions() int { return p.dims }

func (p *FastEmbedProvider) HasSparse() bool { return false }

func (p *FastEmbedProvider) EmbedDense(ctx context.Context, text string) ([]float32, error) {
	return p.model.QueryEmbed(text)
}

func (p *FastEmbedProvider) EmbedSparse(ctx context.Context, text string) (SparseVector, error) {
	return SparseVector{}, ErrSparseUnsupported
}

// Close releases the underlying ONNX session.
func (p *FastEmbedProvider) Close() error {
	if p.model != nil {
		p.model.Destroy()
	}
	return nil
}
