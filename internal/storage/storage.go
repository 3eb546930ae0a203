package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/models"
)

// Storage is the record store and metadata catalog the copy logic runs
// against.
type Storage interface {
	RecordStorage
	MetadataCatalog
	Close() error
}

type RecordStorage interface {
	// Retrieve returns the record or models.ErrRecordNotFound. A non-empty
	// column list restricts the returned attributes.
	Retrieve(ctx context.Context, logicalName string, id uuid.UUID, columns []string) (*models.Entity, error)
	// Create persists a new record and returns its id. A zero id is assigned.
	Create(ctx context.Context, entity *models.Entity) (uuid.UUID, error)
}

type MetadataCatalog interface {
	// RetrieveEntityMetadata returns every descriptor carrying typeCode.
	RetrieveEntityMetadata(ctx context.Context, typeCode int) ([]models.EntityMetadata, error)
	RegisterEntityMetadata(ctx context.Context, metadata models.EntityMetadata) error
}

func selectColumns(attrs map[string]any, columns []string) map[string]any {
	if len(columns) == 0 {
		out := make(map[string]any, len(attrs))
		for k, v := range attrs {
			out[k] = v
		}
		return out
	}
	out := make(map[string]any, len(columns))
	for _, c := range columns {
		if v, ok := attrs[c]; ok {
			out[c] = v
		}
	}
	return out
}
