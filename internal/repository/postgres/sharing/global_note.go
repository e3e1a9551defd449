package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloudnote/internal/domain"
	models "cloudnote/internal/domain/models/sharing"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var globalNoteColumns = []string{
	"id", "original_note_id", "title", "content", "type", "file_url", "file_name",
	"author_id", "author_name", "author_photo_url", "share_token", "created_at", "updated_at",
}

// PostgresGlobalNoteRepository implements the GlobalNoteRepository interface
type PostgresGlobalNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewGlobalNoteRepository creates a new global note repository
func NewGlobalNoteRepository(config *postgres.RepositoryConfig) sharingRepo.GlobalNoteRepository {
	return &PostgresGlobalNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a snapshot
func (r *PostgresGlobalNoteRepository) Create(ctx context.Context, note *models.GlobalNote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (original_note_id, title, content, type, file_url, file_name,
			author_id, author_name, author_photo_url, share_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.tables.GlobalNotes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.OriginalNoteID,
		note.Title,
		note.Content,
		note.Type,
		note.FileURL,
		note.FileName,
		note.AuthorID,
		note.AuthorName,
		note.AuthorPhotoURL,
		note.ShareToken,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create global note: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot by ID
func (r *PostgresGlobalNoteRepository) GetByID(ctx context.Context, id string) (*models.GlobalNote, error) {
	return r.getOne(ctx, "id", id)
}

// GetByShareToken retrieves a snapshot by its share token
func (r *PostgresGlobalNoteRepository) GetByShareToken(ctx context.Context, token string) (*models.GlobalNote, error) {
	return r.getOne(ctx, "share_token", token)
}

func (r *PostgresGlobalNoteRepository) getOne(ctx context.Context, column, value string) (*models.GlobalNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(globalNoteColumns, ", "), r.tables.GlobalNotes, column)

	executor := postgres.GetExecutor(ctx, r.pool)
	note, err := scanGlobalNote(executor.QueryRow(ctx, query, value))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Global note not found"}
		}
		return nil, fmt.Errorf("get global note: %w", err)
	}

	return note, nil
}

// ListByOriginal returns every snapshot of noteID published by authorID
func (r *PostgresGlobalNoteRepository) ListByOriginal(ctx context.Context, noteID, authorID string) ([]models.GlobalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE original_note_id = $1 AND author_id = $2
		ORDER BY created_at ASC
	`, strings.Join(globalNoteColumns, ", "), r.tables.GlobalNotes)

	return r.queryGlobalNotes(ctx, query, noteID, authorID)
}

// ListRecent returns the newest snapshots first
func (r *PostgresGlobalNoteRepository) ListRecent(ctx context.Context, limit int) ([]models.GlobalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, strings.Join(globalNoteColumns, ", "), r.tables.GlobalNotes)

	return r.queryGlobalNotes(ctx, query, limit)
}

// UpdateContent rewrites the projected note fields
func (r *PostgresGlobalNoteRepository) UpdateContent(ctx context.Context, note *models.GlobalNote) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, content = $3, type = $4, file_url = $5, file_name = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.GlobalNotes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.Type,
		note.FileURL,
		note.FileName,
	).Scan(&note.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return &domain.NotFoundError{Message: "Global note not found"}
		}
		return fmt.Errorf("update global note: %w", err)
	}

	return nil
}

// UpdateAuthor rewrites author display fields on every snapshot by authorID
func (r *PostgresGlobalNoteRepository) UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET author_name = $2, author_photo_url = $3, updated_at = NOW()
		WHERE author_id = $1
	`, r.tables.GlobalNotes)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, authorID, name, photoURL)
	if err != nil {
		return 0, fmt.Errorf("update global note author: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteByOriginal removes every snapshot of noteID published by authorID
func (r *PostgresGlobalNoteRepository) DeleteByOriginal(ctx context.Context, noteID, authorID string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE original_note_id = $1 AND author_id = $2`, r.tables.GlobalNotes)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, noteID, authorID)
	if err != nil {
		return 0, fmt.Errorf("delete global notes: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Count returns the number of published note snapshots
func (r *PostgresGlobalNoteRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.GlobalNotes)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count global notes: %w", err)
	}

	return count, nil
}

func (r *PostgresGlobalNoteRepository) queryGlobalNotes(ctx context.Context, query string, args ...interface{}) ([]models.GlobalNote, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query global notes: %w", err)
	}
	defer rows.Close()

	notes := []models.GlobalNote{}
	for rows.Next() {
		note, err := scanGlobalNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan global note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global notes: %w", err)
	}

	return notes, nil
}

func scanGlobalNote(row pgx.Row) (*models.GlobalNote, error) {
	var note models.GlobalNote
	err := row.Scan(
		&note.ID,
		&note.OriginalNoteID,
		&note.Title,
		&note.Content,
		&note.Type,
		&note.FileURL,
		&note.FileName,
		&note.AuthorID,
		&note.AuthorName,
		&note.AuthorPhotoURL,
		&note.ShareToken,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
