package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xaenox/note-copy/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	return OpenPostgres(config.DSN(), logger)
}

// OpenPostgres connects using a libpq connection string or URL and applies
// the embedded schema.
func OpenPostgres(dsn string, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Retrieve(ctx context.Context, logicalName string, id uuid.UUID, columns []string) (*models.Entity, error) {
	query := `
		SELECT attributes
		FROM records
		WHERE logical_name = $1 AND id = $2`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, logicalName, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrRecordNotFound, logicalName, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving record: %w", err)
	}

	attrs, err := decodeAttributes(raw)
	if err != nil {
		return nil, fmt.Errorf("error decoding record %s/%s: %w", logicalName, id, err)
	}

	return &models.Entity{
		LogicalName: logicalName,
		ID:          id,
		Attributes:  selectColumns(attrs, columns),
	}, nil
}

func (s *PostgresStorage) Create(ctx context.Context, entity *models.Entity) (uuid.UUID, error) {
	if entity == nil || entity.LogicalName == "" {
		return uuid.Nil, fmt.Errorf("%w: entity has no logical name", models.ErrCreateFailed)
	}

	id := entity.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	raw, err := encodeAttributes(entity.Attributes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", models.ErrCreateFailed, err)
	}

	query := `
		INSERT INTO records (logical_name, id, attributes)
		VALUES ($1, $2, $3)`

	if _, err := s.db.ExecContext(ctx, query, entity.LogicalName, id, string(raw)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			s.logger.Warn("Record insert rejected",
				zap.String("logical_name", entity.LogicalName),
				zap.String("code", string(pqErr.Code)),
				zap.String("condition", pqErr.Code.Name()))
			return uuid.Nil, fmt.Errorf("%w: %s: %s", models.ErrCreateFailed, pqErr.Code.Name(), pqErr.Message)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", models.ErrCreateFailed, err)
	}

	return id, nil
}

func (s *PostgresStorage) RetrieveEntityMetadata(ctx context.Context, typeCode int) ([]models.EntityMetadata, error) {
	query := `
		SELECT logical_name, object_type_code, display_name
		FROM entity_metadata
		WHERE object_type_code = $1
		ORDER BY logical_name`

	rows, err := s.db.QueryContext(ctx, query, typeCode)
	if err != nil {
		return nil, fmt.Errorf("error querying entity metadata: %w", err)
	}
	defer rows.Close()

	var result []models.EntityMetadata
	for rows.Next() {
		var m models.EntityMetadata
		if err := rows.Scan(&m.LogicalName, &m.ObjectTypeCode, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("error scanning entity metadata: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity metadata: %w", err)
	}

	return result, nil
}

func (s *PostgresStorage) RegisterEntityMetadata(ctx context.Context, metadata models.EntityMetadata) error {
	if metadata.LogicalName == "" {
		return fmt.Errorf("entity metadata has no logical name")
	}

	query := `
		INSERT INTO entity_metadata (logical_name, object_type_code, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (logical_name) DO UPDATE
		SET object_type_code = EXCLUDED.object_type_code,
		    display_name = EXCLUDED.display_name`

	if _, err := s.db.ExecContext(ctx, query, metadata.LogicalName, metadata.ObjectTypeCode, metadata.DisplayName); err != nil {
		return fmt.Errorf("error registering entity metadata: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
