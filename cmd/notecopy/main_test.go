package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/note-copy/internal/copier"
	"github.com/xaenox/note-copy/internal/models"
	"github.com/xaenox/note-copy/internal/storage"
	"github.com/xaenox/note-copy/pkg/config"
	"go.uber.org/zap/zaptest"
)

const testConfig = `
database:
  driver: memory
cache:
  backend: memory
log:
  level: error
catalog:
  entities:
    - type_code: 1
      logical_name: account
    - type_code: 2
      logical_name: contact
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestResolveCommand(t *testing.T) {
	path := writeTestConfig(t)
	out, err := run(t, "resolve", "--config", path, "--url", "https://org.example.com/main.aspx?etc=2&id=ba166c72-5f7b-e611-80db-fc15b4282d80")
	require.NoError(t, err)
	assert.Equal(t, "contact/ba166c72-5f7b-e611-80db-fc15b4282d80", strings.TrimSpace(out))
}

func TestResolveCommand_Unknown(t *testing.T) {
	path := writeTestConfig(t)
	_, err := run(t, "resolve", "--config", path, "--url", "https://org.example.com/main.aspx?etc=77&id=ba166c72-5f7b-e611-80db-fc15b4282d80")
	assert.ErrorIs(t, err, models.ErrUnknownEntityType)
}

func TestCopyCommand_RefusesMemoryStore(t *testing.T) {
	path := writeTestConfig(t)
	_, err := run(t, "copy", "--config", path,
		"--note", uuid.NewString(),
		"--url", "https://org.example.com/main.aspx?etc=1&id=ba166c72-5f7b-e611-80db-fc15b4282d80")
	assert.ErrorIs(t, err, errEphemeralStore)
}

func TestCopyCommand_HelpMentionsPersistentStore(t *testing.T) {
	assert.Contains(t, copyCmd.Long, "postgres")
}

func TestCopyCommand_BadNoteID(t *testing.T) {
	_, err := run(t, "copy", "--note", "nope", "--url", "https://org.example.com/main.aspx?etc=1&id=ba166c72-5f7b-e611-80db-fc15b4282d80")
	assert.ErrorIs(t, err, models.ErrMalformedLocator)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "notecopy version")
}

func TestNewApp_CopiesNote(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.LoadConfig(writeTestConfig(t))
	require.NoError(t, err)

	a, err := newApp(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	store, ok := a.store.(*storage.MemoryStorage)
	require.True(t, ok)

	note := models.NewEntity(models.NoteEntityName)
	note.Set(models.AttrSubject, "s")
	note.Set(models.AttrObjectID, models.EntityReference{LogicalName: "contact", ID: uuid.New()})
	noteID, err := store.Create(ctx, note)
	require.NoError(t, err)

	target := uuid.New()
	outputs, err := copier.Invoke(ctx, a.engine, models.ExecutionContext{}, map[string]any{
		"NoteToCopy": noteID,
		"RecordUrl":  "https://org.example.com/main.aspx?etc=1&id=" + target.String(),
	})
	require.NoError(t, err)

	raw, err := json.Marshal(outputs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"WasNoteCopied":true}`, string(raw))
	assert.Len(t, store.Records(models.NoteEntityName), 2)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := newLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)

	logger, err := newLogger(config.LogConfig{Level: "loud"}, true)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
