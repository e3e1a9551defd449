package memory

import (
	"context"
	"time"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/repositories"
)

// UserProfileRepository is an in-memory UserProfileRepository
type UserProfileRepository struct {
	store *Store
}

// NewUserProfileRepository creates a profile repository backed by store
func NewUserProfileRepository(store *Store) repositories.UserProfileRepository {
	return &UserProfileRepository{store: store}
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.users[userID]
	if !ok {
		return nil, nil
	}
	profile := rec.value
	return &profile, nil
}

func (r *UserProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	rec, ok := r.store.users[profile.UserID]
	if ok {
		profile.CreatedAt = rec.value.CreatedAt
		profile.UpdatedAt = now
	} else {
		rec.seq = r.store.nextSeq()
		stamp(&profile.CreatedAt, &profile.UpdatedAt, now)
	}
	rec.value = *profile
	r.store.users[profile.UserID] = rec
	return nil
}

func (r *UserProfileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recs := make([]record[models.UserProfile], 0, len(r.store.users))
	for _, rec := range r.store.users {
		recs = append(recs, rec)
	}
	sortOldestFirst(recs, func(p models.UserProfile) time.Time { return p.CreatedAt })
	return values(recs), nil
}

func (r *UserProfileRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.users), nil
}
