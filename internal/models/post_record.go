package models

import "time"

type PostRecord struct {
	ID                string          `db:"id" json:"id"`
	ClientID          string          `db:"client_id" json:"client_id"`
	Channels          []string        `db:"channels" json:"channels"`
	ContentType       string          `db:"content_type" json:"content_type"`
	Caption           string          `db:"caption" json:"caption"`
	MediaRefs         []string        `db:"media_refs" json:"media_refs"`
	IsDraft           bool            `db:"is_draft" json:"is_draft"`
	ApprovalStatus    string          `db:"approval_status" json:"approval_status"`
	ScheduledAt       *time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status            string          `db:"status" json:"status"`
	PublishedAt       *time.Time      `db:"published_at" json:"published_at"`
	ErrorMessage      string          `db:"error_message" json:"error_message"`
	PerChannelResults []ChannelResult `db:"per_channel_results" json:"per_channel_results"`
	RejectionReason   string          `db:"rejection_reason" json:"rejection_reason"`
	CreatedBy         string          `db:"created_by" json:"created_by"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// ChannelResult is the persisted outcome of one delivery attempt to one
// channel. It is audit data; control flow only looks at the overall OK.
type ChannelResult struct {
	Channel    string `json:"channel"`
	OK         bool   `json:"ok"`
	ExternalID string `json:"external_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusScheduled       = "scheduled"
	StatusPublishing      = "publishing"
	StatusPublished       = "published"
	StatusFailed          = "failed"
	StatusRejected        = "rejected"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

const (
	ContentTypeImage    = "image"
	ContentTypeVideo    = "video"
	ContentTypeCarousel = "carousel"
)

// DeriveInitialStatus computes the lifecycle status of a freshly submitted
// record. Precedence: draft > pending approval > scheduled > publishing.
func DeriveInitialStatus(isDraft bool, approvalStatus string, scheduledAt *time.Time, now time.Time) string {
	if isDraft {
		return StatusDraft
	}
	if approvalStatus == ApprovalPending {
		return StatusPendingApproval
	}
	if scheduledAt != nil && scheduledAt.After(now) {
		return StatusScheduled
	}
	return StatusPublishing
}

// NextAfterApproval resolves where an approved record goes: back to the
// calendar if its slot is still ahead, straight to publishing otherwise.
func NextAfterApproval(scheduledAt *time.Time, now time.Time) string {
	if scheduledAt != nil && scheduledAt.After(now) {
		return StatusScheduled
	}
	return StatusPublishing
}

// IsTerminalStatus reports whether the pipeline's automatic machinery is done
// with a record. Drafts and rejected records only move via a new intake.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusPublished, StatusFailed, StatusRejected:
		return true
	}
	return false
}
