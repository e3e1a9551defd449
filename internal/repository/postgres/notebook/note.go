package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloudnote/internal/config"
	"cloudnote/internal/domain"
	models "cloudnote/internal/domain/models/notebook"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	"cloudnote/internal/repository/postgres"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var noteColumns = []string{
	"id", "owner_id", "title", "content", "folder_id", "tags",
	"is_archived", "is_favorite", "is_global", "type", "file_url", "file_name",
	"share_token", "shared_at", "created_at", "updated_at",
}

// PostgresNoteRepository implements the NoteRepository interface
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *postgres.RepositoryConfig) notebookRepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new note
func (r *PostgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, content, folder_id, tags, is_archived, is_favorite,
			is_global, type, file_url, file_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.OwnerID,
		note.Title,
		note.Content,
		note.FolderID,
		nonNilTags(note.Tags),
		note.IsArchived,
		note.IsFavorite,
		note.IsGlobal,
		note.Type,
		note.FileURL,
		note.FileName,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, strings.Join(noteColumns, ", "), r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	note, err := scanNote(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Note not found"}
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

// GetByShareToken retrieves a note by its private share token
func (r *PostgresNoteRepository) GetByShareToken(ctx context.Context, token string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE share_token = $1 LIMIT 1`, strings.Join(noteColumns, ", "), r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	note, err := scanNote(executor.QueryRow(ctx, query, token))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Shared note not found"}
		}
		return nil, fmt.Errorf("get note by share token: %w", err)
	}

	return note, nil
}

// List returns one owner's notes matching the filter
func (r *PostgresNoteRepository) List(ctx context.Context, filter *models.NoteFilter) ([]models.Note, error) {
	query, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note list query: %w", err)
	}

	return r.queryNotes(ctx, query, args...)
}

func (r *PostgresNoteRepository) listQuery(filter *models.NoteFilter) sq.SelectBuilder {
	q := psql.Select(noteColumns...).
		From(r.tables.Notes).
		Where(sq.Eq{"owner_id": filter.OwnerID}).
		Where(sq.Eq{"is_archived": filter.IsArchived})

	if filter.FolderID != nil {
		q = q.Where(sq.Eq{"folder_id": *filter.FolderID})
	} else {
		q = q.Where(sq.Eq{"folder_id": nil})
	}
	if filter.IsFavorite != nil {
		q = q.Where(sq.Eq{"is_favorite": *filter.IsFavorite})
	}
	if len(filter.Tags) > 0 {
		q = q.Where("tags && ?", filter.Tags)
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"updated_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"updated_at": *filter.To})
	}

	sortColumn := "updated_at"
	if filter.SortBy == models.SortByCreatedAt {
		sortColumn = "created_at"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = config.DefaultNoteListLimit
	}

	return q.OrderBy(sortColumn + " DESC").Limit(uint64(limit))
}

// ListByFolder returns the notes directly inside a folder, oldest first
func (r *PostgresNoteRepository) ListByFolder(ctx context.Context, folderID, ownerID string) ([]models.Note, error) {
	q := psql.Select(noteColumns...).
		From(r.tables.Notes).
		Where(sq.Eq{"folder_id": folderID}).
		OrderBy("created_at ASC", "id ASC")
	if ownerID != "" {
		q = q.Where(sq.Eq{"owner_id": ownerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build folder notes query: %w", err)
	}

	return r.queryNotes(ctx, query, args...)
}

// Update persists every mutable field of the note
func (r *PostgresNoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, content = $3, folder_id = $4, tags = $5, is_archived = $6,
			is_favorite = $7, is_global = $8, type = $9, file_url = $10, file_name = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.FolderID,
		nonNilTags(note.Tags),
		note.IsArchived,
		note.IsFavorite,
		note.IsGlobal,
		note.Type,
		note.FileURL,
		note.FileName,
	).Scan(&note.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return &domain.NotFoundError{Message: "Note not found"}
		}
		return fmt.Errorf("update note: %w", err)
	}

	return nil
}

// SetShareToken stores a private share token
func (r *PostgresNoteRepository) SetShareToken(ctx context.Context, id, token string) error {
	query := fmt.Sprintf(`UPDATE %s SET share_token = $2, shared_at = $3 WHERE id = $1`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, token, time.Now())
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("share token collision: %w", domain.ErrConflict)
		}
		return fmt.Errorf("set note share token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: "Note not found"}
	}

	return nil
}

// Delete removes a note
func (r *PostgresNoteRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: "Note not found"}
	}

	return nil
}

// DeleteByFolder removes every note directly inside folderID
func (r *PostgresNoteRepository) DeleteByFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, folderID)
	if err != nil {
		return 0, fmt.Errorf("delete folder notes: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Count returns the number of notes, optionally for one owner
func (r *PostgresNoteRepository) Count(ctx context.Context, ownerID string) (int, error) {
	q := psql.Select("COUNT(*)").From(r.tables.Notes)
	if ownerID != "" {
		q = q.Where(sq.Eq{"owner_id": ownerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build note count query: %w", err)
	}

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

func (r *PostgresNoteRepository) queryNotes(ctx context.Context, query string, args ...interface{}) ([]models.Note, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// scanNote scans one row selected with noteColumns
func scanNote(row pgx.Row) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.FolderID,
		&note.Tags,
		&note.IsArchived,
		&note.IsFavorite,
		&note.IsGlobal,
		&note.Type,
		&note.FileURL,
		&note.FileName,
		&note.ShareToken,
		&note.SharedAt,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return &note, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
