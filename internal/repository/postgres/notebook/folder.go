package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloudnote/internal/domain"
	models "cloudnote/internal/domain/models/notebook"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	"cloudnote/internal/repository/postgres"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var folderColumns = []string{
	"id", "owner_id", "name", "parent_id", "share_token", "shared_at", "created_at", "updated_at",
}

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) notebookRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.OwnerID,
		folder.Name,
		folder.ParentID,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, strings.Join(folderColumns, ", "), r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Folder not found"}
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetByShareToken retrieves a folder by its private share token
func (r *PostgresFolderRepository) GetByShareToken(ctx context.Context, token string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE share_token = $1 LIMIT 1`, strings.Join(folderColumns, ", "), r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, token))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "Shared folder not found"}
		}
		return nil, fmt.Errorf("get folder by share token: %w", err)
	}

	return folder, nil
}

// ListChildren lists immediate child folders, oldest first
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	q := psql.Select(folderColumns...).
		From(r.tables.Folders).
		OrderBy("created_at ASC", "id ASC")

	if parentID != nil {
		q = q.Where(sq.Eq{"parent_id": *parentID})
	} else {
		q = q.Where(sq.Eq{"parent_id": nil})
	}
	if ownerID != "" {
		q = q.Where(sq.Eq{"owner_id": ownerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build child folders query: %w", err)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Update persists name and parent
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
	).Scan(&folder.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return &domain.NotFoundError{Message: "Folder not found"}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	return nil
}

// SetShareToken stores a private share token
func (r *PostgresFolderRepository) SetShareToken(ctx context.Context, id, token string) error {
	query := fmt.Sprintf(`UPDATE %s SET share_token = $2, shared_at = $3 WHERE id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, token, time.Now())
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("share token collision: %w", domain.ErrConflict)
		}
		return fmt.Errorf("set folder share token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: "Folder not found"}
	}

	return nil
}

// Delete removes a folder. Sub-folders keep their parent_id.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: "Folder not found"}
	}

	return nil
}

// Count returns the number of folders, optionally for one owner
func (r *PostgresFolderRepository) Count(ctx context.Context, ownerID string) (int, error) {
	q := psql.Select("COUNT(*)").From(r.tables.Folders)
	if ownerID != "" {
		q = q.Where(sq.Eq{"owner_id": ownerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build folder count query: %w", err)
	}

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}

	return count, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.Name,
		&folder.ParentID,
		&folder.ShareToken,
		&folder.SharedAt,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
