package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/models"
)

type recordKey struct {
	logicalName string
	id          uuid.UUID
}

type MemoryStorage struct {
	mu       sync.RWMutex
	records  map[recordKey]*models.Entity
	metadata map[string]models.EntityMetadata
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records:  make(map[recordKey]*models.Entity),
		metadata: make(map[string]models.EntityMetadata),
	}
}

func (s *MemoryStorage) Retrieve(ctx context.Context, logicalName string, id uuid.UUID, columns []string) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, exists := s.records[recordKey{logicalName, id}]
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrRecordNotFound, logicalName, id)
	}
	return &models.Entity{
		LogicalName: entity.LogicalName,
		ID:          entity.ID,
		Attributes:  selectColumns(entity.Attributes, columns),
	}, nil
}

func (s *MemoryStorage) Create(ctx context.Context, entity *models.Entity) (uuid.UUID, error) {
	if entity == nil || entity.LogicalName == "" {
		return uuid.Nil, fmt.Errorf("%w: entity has no logical name", models.ErrCreateFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := entity.Clone()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	key := recordKey{record.LogicalName, record.ID}
	if _, exists := s.records[key]; exists {
		return uuid.Nil, fmt.Errorf("%w: %s already exists", models.ErrCreateFailed, record.Reference())
	}
	s.records[key] = record
	return record.ID, nil
}

func (s *MemoryStorage) RetrieveEntityMetadata(ctx context.Context, typeCode int) ([]models.EntityMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.EntityMetadata
	for _, m := range s.metadata {
		if m.ObjectTypeCode == typeCode {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LogicalName < result[j].LogicalName
	})
	return result, nil
}

// RegisterEntityMetadata upserts a descriptor keyed by logical name.
func (s *MemoryStorage) RegisterEntityMetadata(ctx context.Context, metadata models.EntityMetadata) error {
	if metadata.LogicalName == "" {
		return fmt.Errorf("entity metadata has no logical name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metadata[metadata.LogicalName] = metadata
	return nil
}

// Records returns every stored record of logicalName.
func (s *MemoryStorage) Records(logicalName string) []*models.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Entity
	for key, e := range s.records {
		if key.logicalName == logicalName {
			result = append(result, e.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
