// internal/memory/store.go
package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"memvault/internal/embed"
)

// Store is the long-term memory store for one category. It owns the mapping
// to physical storage: callers never address collections directly. Safe for
// concurrent use; all state is fixed at construction.
type Store struct {
	backend  pointsBackend
	provider embed.Provider
	registry *Registry
	engine   *Engine
	category Category
}

// NewStore creates a record store bound to one category. depth bounds the
// similarity-search candidate lists (see NewEngine).
func NewStore(client *qdrant.Client, provider embed.Provider, prefix string, cat Category, depth int) (*Store, error) {
	return newStore(client, provider, prefix, cat, depth)
}

func newStore(backend pointsBackend, provider embed.Provider, prefix string, cat Category, depth int) (*Store, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	registry := NewRegistry(backend, prefix, provider.Dimensions())
	return &Store{
		backend:  backend,
		provider: provider,
		registry: registry,
		engine:   NewEngine(backend, provider, registry, depth),
		category: cat,
	}, nil
}

// Upsert writes a record, replacing any prior version with the same
// memory_id. A record without a memory_id is assigned one. Vectors are
// recomputed from Content and updated_at is set to the write time. The stored
// record is returned.
func (s *Store) Upsert(ctx context.Context, rec *Record) (*Record, error) {
	if rec.MemoryID == "" {
		rec.MemoryID = uuid.New().String()
	}
	rec.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	dense, sparse, err := s.embedContent(ctx, rec.Content)
	if err != nil {
		log.Printf("[Store] upsert %s: embedding failed: %v", rec.MemoryID, err)
		return nil, err
	}

	name, err := s.registry.Ensure(ctx, s.category)
	if err != nil {
		log.Printf("[Store] upsert %s: %v", rec.MemoryID, err)
		return nil, err
	}

	vectors := map[string]*qdrant.Vector{
		denseVectorName: qdrant.NewVector(dense...),
	}
	if !sparse.IsZero() {
		vectors[sparseVectorName] = qdrant.NewVectorSparse(sparse.Indices, sparse.Values)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(rec.MemoryID),
		Vectors: qdrant.NewVectorsMap(vectors),
		Payload: recordToPayload(rec),
	}

	_, err = s.backend.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         []*qdrant.PointStruct{point},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		log.Printf("[Store] upsert %s failed: %v", rec.MemoryID, err)
		return nil, fmt.Errorf("upsert failed: %w", err)
	}

	return rec, nil
}

// Get retrieves a record by id; ErrNotFound for unknown ids.
func (s *Store) Get(ctx context.Context, memoryID string) (*Record, error) {
	exists, err := s.registry.Exists(ctx, s.category)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	points, err := s.backend.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.registry.CollectionName(s.category),
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(memoryID)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve memory: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNotFound
	}
	return payloadToRecord(points[0].Payload), nil
}

// List returns one page of records matching the options plus the exact total
// count. When a sort field is given the full matching set is sorted before
// the page is sliced, so pages are consistent with the global order.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Record, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := 0
	if opts.Page > 1 {
		offset = (opts.Page - 1) * limit
	}

	filter := BuildFilter(opts.UserID, opts.AgentID, opts.TeamID, opts.Topics)

	if opts.SortBy == "" {
		return s.engine.Search(ctx, s.category, opts.Query, filter, limit, offset)
	}

	all, total, err := s.engine.Search(ctx, s.category, opts.Query, filter, -1, 0)
	if err != nil {
		return nil, 0, err
	}
	if err := sortRecords(all, opts.SortBy, opts.SortOrder); err != nil {
		return nil, 0, err
	}
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// Delete removes a record by id. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, memoryID string) error {
	return s.DeleteMany(ctx, []string{memoryID})
}

// DeleteMany removes records by id. Unknown ids are skipped by the backend.
func (s *Store) DeleteMany(ctx context.Context, memoryIDs []string) error {
	if len(memoryIDs) == 0 {
		return nil
	}
	exists, err := s.registry.Exists(ctx, s.category)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil
	}

	ids := make([]*qdrant.PointId, len(memoryIDs))
	for i, id := range memoryIDs {
		ids[i] = qdrant.NewIDUUID(id)
	}
	_, err = s.backend.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.registry.CollectionName(s.category),
		Points:         qdrant.NewPointsSelector(ids...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// Clear removes every record in the category.
func (s *Store) Clear(ctx context.Context) error {
	exists, err := s.registry.Exists(ctx, s.category)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil
	}

	_, err = s.backend.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.registry.CollectionName(s.category),
		Points:         qdrant.NewPointsSelectorFilter(&qdrant.Filter{}),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

// embedContent computes both vectors for the text. Empty text yields a zero
// dense vector and no sparse vector without calling the provider; provider
// errors always propagate.
func (s *Store) embedContent(ctx context.Context, content string) ([]float32, embed.SparseVector, error) {
	if content == "" {
		return make([]float32, s.provider.Dimensions()), embed.SparseVector{}, nil
	}

	dense, err := s.provider.EmbedDense(ctx, content)
	if err != nil {
		return nil, embed.SparseVector{}, fmt.Errorf("dense embedding failed: %w", err)
	}

	var sparse embed.SparseVector
	if s.provider.HasSparse() {
		sparse, err = s.provider.EmbedSparse(ctx, content)
		if err != nil {
			return nil, embed.SparseVector{}, fmt.Errorf("sparse embedding failed: %w", err)
		}
	}
	return dense, sparse, nil
}

// sortRecords orders records in place by the named field, ascending unless
// order is "desc". Unknown fields are an error so callers can decide fallback
// policy.
func sortRecords(records []*Record, sortBy, order string) error {
	var less func(a, b *Record) bool
	switch sortBy {
	case "updated_at":
		less = func(a, b *Record) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "memory_id":
		less = func(a, b *Record) bool { return a.MemoryID < b.MemoryID }
	case "user_id":
		less = func(a, b *Record) bool { return a.UserID < b.UserID }
	case "agent_id":
		less = func(a, b *Record) bool { return a.AgentID < b.AgentID }
	case "team_id":
		less = func(a, b *Record) bool { return a.TeamID < b.TeamID }
	case "content":
		less = func(a, b *Record) bool { return a.Content < b.Content }
	default:
		return fmt.Errorf("unknown sort field: %q", sortBy)
	}

	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
	return nil
}
