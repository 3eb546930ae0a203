package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/note-copy/internal/models"
	"go.uber.org/zap/zaptest"
)

func openTestPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	dsn := os.Getenv("NOTECOPY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NOTECOPY_TEST_POSTGRES_DSN not set")
	}
	s, err := OpenPostgres(dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStorage_CreateRetrieve(t *testing.T) {
	s := openTestPostgres(t)
	ctx := context.Background()

	parent := models.EntityReference{LogicalName: "account", ID: uuid.New()}
	e := models.NewEntity(models.NoteEntityName)
	e.Set(models.AttrSubject, "pg")
	e.Set(models.AttrObjectID, parent)
	e.Set(models.AttrFileSize, 7)

	id, err := s.Create(ctx, e)
	require.NoError(t, err)

	got, err := s.Retrieve(ctx, models.NoteEntityName, id, []string{models.AttrObjectID, models.AttrFileSize})
	require.NoError(t, err)
	ref, ok := got.GetRef(models.AttrObjectID)
	require.True(t, ok)
	assert.Equal(t, parent, ref)
	assert.Equal(t, 7, got.GetInt(models.AttrFileSize))
	assert.Empty(t, got.GetString(models.AttrSubject))

	e.ID = id
	_, err = s.Create(ctx, e)
	assert.True(t, errors.Is(err, models.ErrCreateFailed))

	_, err = s.Retrieve(ctx, models.NoteEntityName, uuid.New(), nil)
	assert.True(t, errors.Is(err, models.ErrRecordNotFound))
}

func TestPostgresStorage_Metadata(t *testing.T) {
	s := openTestPostgres(t)
	ctx := context.Background()

	name := "test_" + uuid.NewString()[:8]
	code := 90000 + int(uuid.New().ID()%1000)
	require.NoError(t, s.RegisterEntityMetadata(ctx, models.EntityMetadata{ObjectTypeCode: code, LogicalName: name}))

	found, err := s.RetrieveEntityMetadata(ctx, code)
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, m := range found {
		names = append(names, m.LogicalName)
	}
	assert.Contains(t, names, name)
}
