package sharing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	models "cloudnote/internal/domain/models/sharing"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const alreadySharedMessage = "Folder already shared to global"

var globalFolderColumns = []string{
	"id", "original_folder_id", "name", "note_count", "structure",
	"author_id", "author_name", "author_photo_url", "share_token", "created_at", "updated_at",
}

// PostgresGlobalFolderRepository implements the GlobalFolderRepository interface
type PostgresGlobalFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewGlobalFolderRepository creates a new global folder repository
func NewGlobalFolderRepository(config *postgres.RepositoryConfig) sharingRepo.GlobalFolderRepository {
	return &PostgresGlobalFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a snapshot unless the author already published this folder.
// The unique (original_folder_id, author_id) constraint arbitrates concurrent inserts.
func (r *PostgresGlobalFolderRepository) Create(ctx context.Context, folder *models.GlobalFolder) error {
	structure, err := json.Marshal(folder.Structure)
	if err != nil {
		return fmt.Errorf("encode folder structure: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (original_folder_id, name, note_count, structure,
			author_id, author_name, author_photo_url, share_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (original_folder_id, author_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`, r.tables.GlobalFolders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		folder.OriginalFolderID,
		folder.Name,
		folder.NoteCount,
		structure,
		folder.AuthorID,
		folder.AuthorName,
		folder.AuthorPhotoURL,
		folder.ShareToken,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgDuplicateError(err) {
			existing, listErr := r.ListByOriginal(ctx, folder.OriginalFolderID, folder.AuthorID)
			sharedErr := &domain.AlreadySharedError{Message: alreadySharedMessage}
			if listErr == nil && len(existing) > 0 {
				sharedErr.SnapshotID = existing[0].ID
			}
			return sharedErr
		}
		return fmt.Errorf("create global folder: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot by ID
func (r *PostgresGlobalFolderRepository) GetByID(ctx context.Context, id string) (*models.GlobalFolder, error) {
	return r.getOne(ctx, "id", id)
}

// GetByShareToken retrieves a snapshot by its share token
func (r *PostgresGlobalFolderRepository) GetByShareToken(ctx context.Context, token string) (*models.GlobalFolder, error) {
	return r.getOne(ctx, "share_token", token)
}

func (r *PostgresGlobalFolderRepository) getOne(ctx context.Context, column, value string) (*models.GlobalFolder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(globalFolderColumns, ", "), r.tables.GlobalFolders, column)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanGlobalFolder(executor.QueryRow(ctx, query, value))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Global folder not found"}
		}
		return nil, fmt.Errorf("get global folder: %w", err)
	}

	return folder, nil
}

// ListByOriginal returns every snapshot of folderID published by authorID
func (r *PostgresGlobalFolderRepository) ListByOriginal(ctx context.Context, folderID, authorID string) ([]models.GlobalFolder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE original_folder_id = $1 AND author_id = $2
		ORDER BY created_at ASC
	`, strings.Join(globalFolderColumns, ", "), r.tables.GlobalFolders)

	return r.queryGlobalFolders(ctx, query, folderID, authorID)
}

// ExistsForFolder reports whether anyone published folderID
func (r *PostgresGlobalFolderRepository) ExistsForFolder(ctx context.Context, folderID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE original_folder_id = $1)`, r.tables.GlobalFolders)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check global folder: %w", err)
	}

	return exists, nil
}

// ListRecent returns the newest snapshots first
func (r *PostgresGlobalFolderRepository) ListRecent(ctx context.Context, limit int) ([]models.GlobalFolder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, strings.Join(globalFolderColumns, ", "), r.tables.GlobalFolders)

	return r.queryGlobalFolders(ctx, query, limit)
}

// UpdateSnapshot rewrites name, note count and structure
func (r *PostgresGlobalFolderRepository) UpdateSnapshot(ctx context.Context, folder *models.GlobalFolder) error {
	structure, err := json.Marshal(folder.Structure)
	if err != nil {
		return fmt.Errorf("encode folder structure: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, note_count = $3, structure = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.GlobalFolders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		folder.ID,
		folder.Name,
		folder.NoteCount,
		structure,
	).Scan(&folder.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return &domain.NotFoundError{Message: "Global folder not found"}
		}
		return fmt.Errorf("update global folder: %w", err)
	}

	return nil
}

// UpdateAuthor rewrites author display fields on every snapshot by authorID
func (r *PostgresGlobalFolderRepository) UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET author_name = $2, author_photo_url = $3, updated_at = NOW()
		WHERE author_id = $1
	`, r.tables.GlobalFolders)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, authorID, name, photoURL)
	if err != nil {
		return 0, fmt.Errorf("update global folder author: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteByOriginal removes every snapshot of folderID published by authorID
func (r *PostgresGlobalFolderRepository) DeleteByOriginal(ctx context.Context, folderID, authorID string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE original_folder_id = $1 AND author_id = $2`, r.tables.GlobalFolders)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, folderID, authorID)
	if err != nil {
		return 0, fmt.Errorf("delete global folders: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Count returns the number of published folder snapshots
func (r *PostgresGlobalFolderRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.GlobalFolders)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count global folders: %w", err)
	}

	return count, nil
}

func (r *PostgresGlobalFolderRepository) queryGlobalFolders(ctx context.Context, query string, args ...interface{}) ([]models.GlobalFolder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query global folders: %w", err)
	}
	defer rows.Close()

	folders := []models.GlobalFolder{}
	for rows.Next() {
		folder, err := scanGlobalFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan global folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global folders: %w", err)
	}

	return folders, nil
}

func scanGlobalFolder(row pgx.Row) (*models.GlobalFolder, error) {
	var folder models.GlobalFolder
	var structure []byte
	err := row.Scan(
		&folder.ID,
		&folder.OriginalFolderID,
		&folder.Name,
		&folder.NoteCount,
		&structure,
		&folder.AuthorID,
		&folder.AuthorName,
		&folder.AuthorPhotoURL,
		&folder.ShareToken,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	folder.Structure = notebook.NewFolderStructure()
	if len(structure) > 0 {
		if err := json.Unmarshal(structure, &folder.Structure); err != nil {
			return nil, fmt.Errorf("decode folder structure: %w", err)
		}
	}

	return &folder, nil
}
