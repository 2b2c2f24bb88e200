package embed

import (
	"context"
	"errors"
)

// SparseVector is a term-weighted embedding as (index, value) pairs.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// IsZero reports whether the vector carries no entries.
func (v SparseVector) IsZero() bool {
	return len(v.Indices) == 0
}

// ErrSparseUnsupported is returned by providers that only produce dense vectors.
var ErrSparseUnsupported = errors.New("sparse embeddings not supported by this provider")

// Provider turns text into vector embeddings. Implementations must be safe
// for concurrent use.
type Provider interface {
	// EmbedDense returns a fixed-length dense vector for the text.
	EmbedDense(ctx context.Context, text string) ([]float32, error)
	// EmbedSparse returns a sparse vector, or ErrSparseUnsupported.
	EmbedSparse(ctx context.Context, text string) (SparseVector, error)
	// Dimensions is the fixed length of dense vectors from this provider.
	Dimensions() int
	// HasSparse reports whether EmbedSparse is implemented.
	HasSparse() bool
}
