package models

import "time"

type PostingHistory struct {
	ID           int64     `db:"id" json:"id"`
	ClientID     string    `db:"client_id" json:"client_id"`
	PostID       string    `db:"post_id" json:"post_id"`
	Channel      string    `db:"channel" json:"channel"`
	ExternalID   string    `db:"external_id" json:"external_id"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
