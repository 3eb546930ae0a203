// Package notes reads and writes note records on top of a record store.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/models"
	"github.com/xaenox/note-copy/internal/storage"
	"go.uber.org/zap"
)

type Repository struct {
	records storage.RecordStorage
	logger  *zap.Logger
}

func NewRepository(records storage.RecordStorage, logger *zap.Logger) *Repository {
	return &Repository{
		records: records,
		logger:  logger,
	}
}

// Fetch loads the note with its parent reference and attachment payload.
func (r *Repository) Fetch(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	entity, err := r.records.Retrieve(ctx, models.NoteEntityName, id, models.NoteColumns)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, fmt.Errorf("note %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to retrieve note %s: %w", id, err)
	}

	note := &models.Note{
		ID:      id,
		Subject: entity.GetString(models.AttrSubject),
		Text:    entity.GetString(models.AttrNoteText),
	}
	if parent, ok := entity.GetRef(models.AttrObjectID); ok && !parent.IsZero() {
		note.Parent = &parent
	}
	if entity.GetBool(models.AttrIsDocument) && entity.GetString(models.AttrDocumentBody) != "" {
		note.Attachment = &models.Attachment{
			FileName: entity.GetString(models.AttrFileName),
			MimeType: entity.GetString(models.AttrMimeType),
			Body:     entity.GetString(models.AttrDocumentBody),
			FileSize: entity.GetInt(models.AttrFileSize),
		}
	}

	return note, nil
}

// Create writes a copy of source under parent. The attachment is copied only
// when copyAttachment is set and source has one.
func (r *Repository) Create(ctx context.Context, parent models.EntityReference, source *models.Note, copyAttachment bool) (uuid.UUID, error) {
	entity := models.NewEntity(models.NoteEntityName)
	entity.Set(models.AttrObjectID, parent)
	entity.Set(models.AttrObjectTypeCode, parent.LogicalName)
	entity.Set(models.AttrSubject, source.Subject)
	entity.Set(models.AttrNoteText, source.Text)

	withAttachment := copyAttachment && source.HasAttachment()
	if withAttachment {
		entity.Set(models.AttrIsDocument, true)
		entity.Set(models.AttrFileName, source.Attachment.FileName)
		entity.Set(models.AttrMimeType, source.Attachment.MimeType)
		entity.Set(models.AttrDocumentBody, source.Attachment.Body)
		entity.Set(models.AttrFileSize, source.Attachment.FileSize)
	} else {
		entity.Set(models.AttrIsDocument, false)
	}

	id, err := r.records.Create(ctx, entity)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return uuid.Nil, fmt.Errorf("note copy under %s: %w", parent, err)
		}
		return uuid.Nil, fmt.Errorf("note copy under %s: %w: %v", parent, models.ErrCreateFailed, err)
	}

	r.logger.Debug("Created note",
		zap.String("note_id", id.String()),
		zap.String("source_id", source.ID.String()),
		zap.String("parent", parent.String()),
		zap.Bool("attachment", withAttachment))

	return id, nil
}
