package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"memvault/internal/embed"
)

// fakeBackend is an in-memory pointsBackend with just enough qdrant
// semantics (keyword filters, cosine/sparse scoring, scroll, count) to
// exercise the store and engine without a server.
type fakeBackend struct {
	mu          sync.Mutex
	collections map[string][]*fakePoint
	indexes     map[string][]string
	creates     int
}

type fakePoint struct {
	id      string
	dense   []float32
	sparse  map[uint32]float32
	payload map[string]*qdrant.Value
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		collections: make(map[string][]*fakePoint),
		indexes:     make(map[string][]string),
	}
}

func (b *fakeBackend) CollectionExists(ctx context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.collections[name]
	return ok, nil
}

func (b *fakeBackend) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.collections[req.CollectionName]; ok {
		return fmt.Errorf("collection %s already exists", req.CollectionName)
	}
	b.collections[req.CollectionName] = nil
	b.creates++
	return nil
}

func (b *fakeBackend) CreateFieldIndex(ctx context.Context, req *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indexes[req.CollectionName] = append(b.indexes[req.CollectionName], req.FieldName)
	return &qdrant.UpdateResult{}, nil
}

func (b *fakeBackend) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", req.CollectionName)
	}
	for _, ps := range req.Points {
		fp := &fakePoint{
			id:      ps.Id.GetUuid(),
			payload: ps.Payload,
			sparse:  make(map[uint32]float32),
		}
		if named := ps.Vectors.GetVectors(); named != nil {
			if dense, ok := named.Vectors[denseVectorName]; ok && dense.Indices == nil {
				fp.dense = dense.Data
			}
			if sparse, ok := named.Vectors[sparseVectorName]; ok && sparse.Indices != nil {
				for i, idx := range sparse.Indices.Data {
					fp.sparse[idx] = sparse.Data[i]
				}
			}
		}
		replaced := false
		for i, existing := range points {
			if existing.id == fp.id {
				points[i] = fp
				replaced = true
				break
			}
		}
		if !replaced {
			points = append(points, fp)
		}
	}
	b.collections[req.CollectionName] = points
	return &qdrant.UpdateResult{}, nil
}

func (b *fakeBackend) Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", req.CollectionName)
	}

	nearest := req.Query.GetNearest()
	if nearest == nil {
		return nil, fmt.Errorf("only nearest queries supported")
	}

	type scored struct {
		point *fakePoint
		score float32
		order int
	}
	var results []scored
	for i, p := range points {
		if !matchesFilter(p, req.Filter) {
			continue
		}
		var score float32
		if dense := nearest.GetDense(); dense != nil {
			score = cosine(dense.Data, p.dense)
		} else if sparse := nearest.GetSparse(); sparse != nil {
			for j, idx := range sparse.Indices {
				score += sparse.Values[j] * p.sparse[idx]
			}
		}
		results = append(results, scored{point: p, score: score, order: i})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].order < results[j].order
	})
	limit := len(results)
	if req.Limit != nil && int(*req.Limit) < limit {
		limit = int(*req.Limit)
	}

	out := make([]*qdrant.ScoredPoint, 0, limit)
	for _, r := range results[:limit] {
		out = append(out, &qdrant.ScoredPoint{
			Id:      qdrant.NewIDUUID(r.point.id),
			Score:   r.score,
			Payload: r.point.payload,
		})
	}
	return out, nil
}

func (b *fakeBackend) Scroll(ctx context.Context, req *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", req.CollectionName)
	}
	var out []*qdrant.RetrievedPoint
	for _, p := range points {
		if !matchesFilter(p, req.Filter) {
			continue
		}
		out = append(out, &qdrant.RetrievedPoint{
			Id:      qdrant.NewIDUUID(p.id),
			Payload: p.payload,
		})
		if req.Limit != nil && len(out) >= int(*req.Limit) {
			break
		}
	}
	return out, nil
}

func (b *fakeBackend) Count(ctx context.Context, req *qdrant.CountPoints) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return 0, fmt.Errorf("collection %s not found", req.CollectionName)
	}
	var n uint64
	for _, p := range points {
		if matchesFilter(p, req.Filter) {
			n++
		}
	}
	return n, nil
}

func (b *fakeBackend) Get(ctx context.Context, req *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", req.CollectionName)
	}
	var out []*qdrant.RetrievedPoint
	for _, id := range req.Ids {
		for _, p := range points {
			if p.id == id.GetUuid() {
				out = append(out, &qdrant.RetrievedPoint{
					Id:      qdrant.NewIDUUID(p.id),
					Payload: p.payload,
				})
			}
		}
	}
	return out, nil
}

func (b *fakeBackend) Delete(ctx context.Context, req *qdrant.DeletePoints) (*qdrant.UpdateResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	points, ok := b.collections[req.CollectionName]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", req.CollectionName)
	}

	keep := points[:0]
	if ids := req.Points.GetPoints(); ids != nil {
		doomed := make(map[string]bool)
		for _, id := range ids.Ids {
			doomed[id.GetUuid()] = true
		}
		for _, p := range points {
			if !doomed[p.id] {
				keep = append(keep, p)
			}
		}
	} else if filter := req.Points.GetFilter(); filter != nil {
		for _, p := range points {
			if !matchesFilter(p, filter) {
				keep = append(keep, p)
			}
		}
	}
	b.collections[req.CollectionName] = keep
	return &qdrant.UpdateResult{}, nil
}

func matchesFilter(p *fakePoint, f *qdrant.Filter) bool {
	if f == nil {
		return true
	}
	for _, cond := range f.Must {
		fc := cond.GetField()
		if fc == nil {
			continue
		}
		match := fc.GetMatch()
		if match == nil {
			continue
		}
		if kw := match.GetKeyword(); kw != "" {
			if !payloadHasKeyword(p.payload, fc.Key, kw) {
				return false
			}
		} else if ks := match.GetKeywords(); ks != nil {
			any := false
			for _, kw := range ks.Strings {
				if payloadHasKeyword(p.payload, fc.Key, kw) {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		}
	}
	return true
}

func payloadHasKeyword(payload map[string]*qdrant.Value, key, keyword string) bool {
	val, ok := payload[key]
	if !ok {
		return false
	}
	if s := val.GetStringValue(); s != "" {
		return s == keyword
	}
	if list := val.GetListValue(); list != nil {
		for _, v := range list.Values {
			if v.GetStringValue() == keyword {
				return true
			}
		}
	}
	return false
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// fakeProvider returns canned vectors per text, with a deterministic
// fallback so unlisted texts still embed.
type fakeProvider struct {
	dims       int
	sparse     bool
	denseVecs  map[string][]float32
	sparseVecs map[string]embed.SparseVector
	denseErr   error
}

func newFakeProvider(dims int, sparse bool) *fakeProvider {
	return &fakeProvider{
		dims:       dims,
		sparse:     sparse,
		denseVecs:  make(map[string][]float32),
		sparseVecs: make(map[string]embed.SparseVector),
	}
}

func (p *fakeProvider) Dimensions() int { return p.dims }

func (p *fakeProvider) HasSparse() bool { return p.sparse }

func (p *fakeProvider) EmbedDense(ctx context.Context, text string) ([]float32, error) {
	if p.denseErr != nil {
		return nil, p.denseErr
	}
	if vec, ok := p.denseVecs[text]; ok {
		return vec, nil
	}
	// Deterministic fallback: spread byte sums across the vector
	vec := make([]float32, p.dims)
	for i, r := range []byte(text) {
		vec[i%p.dims] += float32(r) / 255
	}
	return vec, nil
}

func (p *fakeProvider) EmbedSparse(ctx context.Context, text string) (embed.SparseVector, error) {
	if !p.sparse {
		return embed.SparseVector{}, embed.ErrSparseUnsupported
	}
	if vec, ok := p.sparseVecs[text]; ok {
		return vec, nil
	}
	return embed.SparseVector{Indices: []uint32{uint32(len(text))}, Values: []float32{1}}, nil
}
