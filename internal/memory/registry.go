package memory

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// Registry maps logical categories to physical qdrant collections and lazily
// provisions them with the hybrid (dense + sparse) schema.
type Registry struct {
	backend pointsBackend
	prefix  string
	dims    uint64
}

// NewRegistry creates a registry. prefix names the deployment; collections
// are named "<prefix>_<category>" so restarts resolve to the same collection.
func NewRegistry(backend pointsBackend, prefix string, dims int) *Registry {
	return &Registry{
		backend: backend,
		prefix:  prefix,
		dims:    uint64(dims),
	}
}

// CollectionName returns the deterministic physical name for a category.
func (r *Registry) CollectionName(cat Category) string {
	return fmt.Sprintf("%s_%s", r.prefix, cat)
}

// Ensure creates the collection for cat if it doesn't exist and returns its
// name. Existence is re-checked on every call so out-of-band provisioning
// (or deletion) is picked up without restarting.
func (r *Registry) Ensure(ctx context.Context, cat Category) (string, error) {
	if err := cat.Validate(); err != nil {
		return "", err
	}
	name := r.CollectionName(cat)

	exists, err := r.backend.CollectionExists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return name, nil
	}

	err = r.backend.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {
				Size:     r.dims,
				Distance: qdrant.Distance_Cosine,
			},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {
				Modifier: qdrant.Modifier_Idf.Enum(),
			},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create collection %s: %w", name, err)
	}

	// Payload indexes for efficient tenant/topic filtering
	indexes := []struct {
		field string
		typ   qdrant.FieldType
	}{
		{"user_id", qdrant.FieldType_FieldTypeKeyword},
		{"agent_id", qdrant.FieldType_FieldTypeKeyword},
		{"team_id", qdrant.FieldType_FieldTypeKeyword},
		{"topics", qdrant.FieldType_FieldTypeKeyword},
		{"updated_at", qdrant.FieldType_FieldTypeInteger},
	}
	for _, idx := range indexes {
		fieldType := idx.typ
		_, err = r.backend.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.field,
			FieldType:      &fieldType,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create index for %s: %w", idx.field, err)
		}
	}

	return name, nil
}

// Exists reports whether the physical collection for cat has been created.
func (r *Registry) Exists(ctx context.Context, cat Category) (bool, error) {
	return r.backend.CollectionExists(ctx, r.CollectionName(cat))
}
