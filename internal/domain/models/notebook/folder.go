package notebook

import "time"

type Folder struct {
	ID         string     `json:"id" db:"id"`
	OwnerID    string     `json:"ownerId" db:"owner_id"`
	Name       string     `json:"name" db:"name"`
	ParentID   *string    `json:"parentId" db:"parent_id"` // NULL = root level
	ShareToken *string    `json:"shareToken,omitempty" db:"share_token"`
	SharedAt   *time.Time `json:"sharedAt,omitempty" db:"shared_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
