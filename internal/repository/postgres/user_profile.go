package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserProfileRepository implements the UserProfileRepository interface
type PostgresUserProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserProfileRepository creates a new PostgresUserProfileRepository
func NewUserProfileRepository(config *RepositoryConfig) repositories.UserProfileRepository {
	return &PostgresUserProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves a profile for a specific user
func (r *PostgresUserProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT user_id, email, display_name, photo_url, theme, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Users)

	var profile models.UserProfile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.DisplayName,
		&profile.PhotoURL,
		&profile.Theme,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Never saved a profile - not an error
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates or replaces a profile
func (r *PostgresUserProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, email, display_name, photo_url, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			theme = EXCLUDED.theme,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.UserID,
		profile.Email,
		profile.DisplayName,
		profile.PhotoURL,
		profile.Theme,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}

	return nil
}

// List returns every known profile, oldest first
func (r *PostgresUserProfileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT user_id, email, display_name, photo_url, theme, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list user profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.UserProfile{}
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.UserID, &p.Email, &p.DisplayName, &p.PhotoURL, &p.Theme, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user profiles: %w", err)
	}

	return profiles, nil
}

// Count returns the number of stored profiles
func (r *PostgresUserProfileRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Users)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count user profiles: %w", err)
	}

	return count, nil
}
