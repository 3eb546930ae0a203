// Package metadata maps entity type codes to logical entity names.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/note-copy/internal/models"
	"go.uber.org/zap"
)

// Catalog answers metadata queries filtered by type code.
type Catalog interface {
	RetrieveEntityMetadata(ctx context.Context, typeCode int) ([]models.EntityMetadata, error)
}

type Resolver struct {
	catalog Catalog
	cache   Cache
	logger  *zap.Logger
}

// NewResolver returns a resolver reading through cache. A nil cache disables
// caching.
func NewResolver(catalog Catalog, cache Cache, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NoCache{}
	}
	return &Resolver{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// Resolve returns the logical name of the single entity carrying typeCode.
func (r *Resolver) Resolve(ctx context.Context, typeCode int) (string, error) {
	name, ok, err := r.cache.Get(ctx, typeCode)
	if err != nil {
		r.logger.Warn("Metadata cache read failed",
			zap.Error(err),
			zap.Int("type_code", typeCode))
	} else if ok {
		r.logger.Debug("Metadata cache hit",
			zap.Int("type_code", typeCode),
			zap.String("logical_name", name))
		return name, nil
	}

	descriptors, err := r.catalog.RetrieveEntityMetadata(ctx, typeCode)
	if err != nil {
		return "", fmt.Errorf("failed to query entity metadata for type code %d: %w", typeCode, err)
	}

	name, err = pick(typeCode, descriptors)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, typeCode, name); err != nil {
		r.logger.Warn("Metadata cache write failed",
			zap.Error(err),
			zap.Int("type_code", typeCode))
	}
	return name, nil
}

func pick(typeCode int, descriptors []models.EntityMetadata) (string, error) {
	var names []string
	for _, d := range descriptors {
		if d.LogicalName != "" {
			names = append(names, d.LogicalName)
		}
	}

	switch len(names) {
	case 0:
		return "", fmt.Errorf("%w: type code %d", models.ErrUnknownEntityType, typeCode)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w: type code %d matches %s",
			models.ErrAmbiguousEntityType, typeCode, strings.Join(names, ", "))
	}
}
