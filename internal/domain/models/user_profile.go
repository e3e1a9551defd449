package models

import "time"

// UserProfile is the per-user display data kept alongside Firebase identity
type UserProfile struct {
	UserID      string    `json:"uid" db:"user_id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"displayName" db:"display_name"`
	PhotoURL    string    `json:"photoURL" db:"photo_url"`
	Theme       string    `json:"theme" db:"theme"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left alone
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Theme       *string `json:"theme"`
}

// Identity is the verified caller, as extracted from the bearer token
type Identity struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"displayName"`
	Picture string `json:"photoURL"`
}

// AdminStats summarizes stored data for the admin dashboard
type AdminStats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalNotes         int `json:"totalNotes"`
	TotalFolders       int `json:"totalFolders"`
	TotalGlobalNotes   int `json:"totalGlobalNotes"`
	TotalGlobalFolders int `json:"totalGlobalFolders"`
}
