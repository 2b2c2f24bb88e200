package memory

import (
	"context"
	"fmt"
	"log"

	"github.com/qdrant/go-client/qdrant"

	"memvault/internal/embed"
)

// Engine executes retrieval against one collection: a metadata scroll when no
// query text is given, or hybrid dense+sparse similarity search fused with
// reciprocal ranks when it is. Engines hold no per-call state and are safe
// for concurrent use.
type Engine struct {
	backend  pointsBackend
	provider embed.Provider
	registry *Registry
	depth    int // per-list retrieval depth for vector search
}

// NewEngine creates a retrieval engine. depth bounds how many candidates each
// similarity search contributes to fusion.
func NewEngine(backend pointsBackend, provider embed.Provider, registry *Registry, depth int) *Engine {
	if depth <= 0 {
		depth = 100
	}
	return &Engine{
		backend:  backend,
		provider: provider,
		registry: registry,
		depth:    depth,
	}
}

// Search returns one page of matching records plus the exact total count for
// the filter. limit < 0 returns the full matching set (bounded by the
// retrieval depth on the vector path). A collection that has not been
// provisioned yet yields zero matches, not an error.
func (e *Engine) Search(ctx context.Context, cat Category, query string, filter *qdrant.Filter, limit, offset int) ([]*Record, int, error) {
	if err := cat.Validate(); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	name := e.registry.CollectionName(cat)

	exists, err := e.backend.CollectionExists(ctx, name)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil, 0, nil
	}

	// Exact count over the same filter, independent of the page
	count, err := e.backend.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	total := int(count)
	if total == 0 {
		return nil, 0, nil
	}

	var records []*Record
	if query == "" {
		records, err = e.scroll(ctx, name, filter, total, limit, offset)
	} else {
		records, err = e.hybridSearch(ctx, name, query, filter, limit, offset)
	}
	if err != nil {
		log.Printf("[Engine] search in %s failed: %v", name, err)
		return nil, 0, err
	}
	return records, total, nil
}

// scroll pages through the collection by metadata only.
func (e *Engine) scroll(ctx context.Context, name string, filter *qdrant.Filter, total, limit, offset int) ([]*Record, error) {
	// Fetch offset+limit and slice; qdrant's scroll cursor is a point id,
	// not a numeric offset.
	fetch := total
	if limit >= 0 && offset+limit < fetch {
		fetch = offset + limit
	}
	if fetch <= offset {
		return nil, nil
	}

	points, err := e.backend.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: name,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(fetch)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}

	if offset >= len(points) {
		return nil, nil
	}
	points = points[offset:]

	records := make([]*Record, 0, len(points))
	for _, point := range points {
		records = append(records, payloadToRecord(point.Payload))
	}
	return records, nil
}

// hybridSearch runs dense and sparse similarity searches independently and
// fuses the ranked lists before paginating.
func (e *Engine) hybridSearch(ctx context.Context, name, query string, filter *qdrant.Filter, limit, offset int) ([]*Record, error) {
	depth := e.depth
	if limit >= 0 && offset+limit > depth {
		depth = offset + limit
	}

	denseVec, err := e.provider.EmbedDense(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dense embedding failed: %w", err)
	}

	byID := make(map[string]*Record)
	denseIDs, err := e.queryVector(ctx, name, qdrant.NewQueryDense(denseVec), denseVectorName, filter, depth, byID)
	if err != nil {
		return nil, fmt.Errorf("dense search failed: %w", err)
	}

	lists := [][]string{denseIDs}
	if e.provider.HasSparse() {
		sparseVec, err := e.provider.EmbedSparse(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("sparse embedding failed: %w", err)
		}
		if !sparseVec.IsZero() {
			sparseIDs, err := e.queryVector(ctx, name,
				qdrant.NewQuerySparse(sparseVec.Indices, sparseVec.Values),
				sparseVectorName, filter, depth, byID)
			if err != nil {
				return nil, fmt.Errorf("sparse search failed: %w", err)
			}
			lists = append(lists, sparseIDs)
		}
	}

	fused := fuseRanked(lists...)

	if offset >= len(fused) {
		return nil, nil
	}
	fused = fused[offset:]
	if limit >= 0 && limit < len(fused) {
		fused = fused[:limit]
	}

	records := make([]*Record, 0, len(fused))
	for _, entry := range fused {
		records = append(records, byID[entry.id])
	}
	return records, nil
}

// queryVector runs one similarity search and returns ids in rank order,
// collecting payloads into byID.
func (e *Engine) queryVector(ctx context.Context, name string, query *qdrant.Query, using string, filter *qdrant.Filter, depth int, byID map[string]*Record) ([]string, error) {
	points, err := e.backend.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          query,
		Using:          qdrant.PtrOf(using),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(depth)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(points))
	for _, point := range points {
		rec := payloadToRecord(point.Payload)
		if rec.MemoryID == "" {
			continue
		}
		ids = append(ids, rec.MemoryID)
		if _, ok := byID[rec.MemoryID]; !ok {
			byID[rec.MemoryID] = rec
		}
	}
	return ids, nil
}
