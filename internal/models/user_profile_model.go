package models

import "time"

type UserProfile struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
	RoleClient     = "client"
)

// AreaAssignment ties an employee to an operational area for one client.
type AreaAssignment struct {
	UserID   string `db:"user_id" json:"user_id"`
	ClientID string `db:"client_id" json:"client_id"`
	Area     string `db:"area" json:"area"`
}

const (
	AreaSocialMedia     = "social_media"
	AreaHeadOfMarketing = "head_of_marketing"
)
