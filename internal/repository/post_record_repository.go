package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/valleops/postpilot/internal/models"
)

type PostRecordRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.PostRecord) error
	GetByID(ctx context.Context, id string) (*models.PostRecord, error)
	ListByClientID(ctx context.Context, clientID string, limit int) ([]*models.PostRecord, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostRecord, error)
	ClaimPublishing(ctx context.Context, id, expectedStatus string) (bool, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time, results []models.ChannelResult) error
	MarkFailed(ctx context.Context, id, errorMessage string, results []models.ChannelResult) error
	SetApproval(ctx context.Context, id, approvalStatus, status, reason string) error
	CheckByClientID(ctx context.Context, id, clientID string) (bool, error)
	Remove(ctx context.Context, id string) error
}

type postRecordRepository struct {
	db *sql.DB
}

func NewPostRecordRepository(db *sql.DB) PostRecordRepository {
	return &postRecordRepository{db: db}
}

const postRecordColumns = `
	id, client_id, channels, content_type, caption, media_refs, is_draft,
	approval_status, scheduled_at, status, published_at, error_message,
	per_channel_results, rejection_reason, created_by, created_at, updated_at
`

func (r *postRecordRepository) Create(ctx context.Context, tx *sql.Tx, post *models.PostRecord) error {
	query := `
		INSERT INTO post_records (
			id, client_id, channels, content_type, caption, media_refs,
			is_draft, approval_status, scheduled_at, status, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var err error
	args := []interface{}{
		post.ID,
		post.ClientID,
		pq.Array(post.Channels),
		post.ContentType,
		post.Caption,
		pq.Array(post.MediaRefs),
		post.IsDraft,
		post.ApprovalStatus,
		post.ScheduledAt,
		post.Status,
		post.CreatedBy,
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postRecordRepository) GetByID(ctx context.Context, id string) (*models.PostRecord, error) {
	query := `SELECT ` + postRecordColumns + ` FROM post_records WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPostRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRecordRepository) ListByClientID(ctx context.Context, clientID string, limit int) ([]*models.PostRecord, error) {
	query := `
		SELECT ` + postRecordColumns + `
		FROM post_records
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPostRecords(rows)
}

// ListDue selects swept candidates earliest-deadline-first so an old due
// record is never starved by a flood of newly due ones.
func (r *postRecordRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostRecord, error) {
	query := `
		SELECT ` + postRecordColumns + `
		FROM post_records
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, models.StatusScheduled, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPostRecords(rows)
}

// ClaimPublishing is the single concurrency-control point of the pipeline:
// one conditional UPDATE, so exactly one of any number of racing callers
// observes RowsAffected == 1.
func (r *postRecordRepository) ClaimPublishing(ctx context.Context, id, expectedStatus string) (bool, error) {
	query := `
		UPDATE post_records
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	res, err := r.db.ExecContext(ctx, query, models.StatusPublishing, time.Now(), id, expectedStatus)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected == 1, nil
}

func (r *postRecordRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time, results []models.ChannelResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return err
	}

	query := `
		UPDATE post_records
		SET status = $1,
			published_at = $2,
			error_message = NULL,
			per_channel_results = $3,
			updated_at = $4
		WHERE id = $5
	`

	_, err = r.db.ExecContext(ctx, query, models.StatusPublished, publishedAt, resultsJSON, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRecordRepository) MarkFailed(ctx context.Context, id, errorMessage string, results []models.ChannelResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return err
	}

	query := `
		UPDATE post_records
		SET status = $1,
			error_message = $2,
			per_channel_results = $3,
			updated_at = $4
		WHERE id = $5
	`

	_, err = r.db.ExecContext(ctx, query, models.StatusFailed, errorMessage, resultsJSON, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRecordRepository) SetApproval(ctx context.Context, id, approvalStatus, status, reason string) error {
	query := `
		UPDATE post_records
		SET approval_status = $1,
			status = $2,
			rejection_reason = $3,
			updated_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, approvalStatus, status, reason, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRecordRepository) CheckByClientID(ctx context.Context, id, clientID string) (bool, error) {
	query := `SELECT 1 FROM post_records WHERE id = $1 AND client_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, id, clientID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRecordRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM post_records WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPostRecord(row rowScanner) (*models.PostRecord, error) {
	var post models.PostRecord
	var errorMessage sql.NullString
	var rejectionReason sql.NullString
	var resultsJSON []byte

	err := row.Scan(
		&post.ID,
		&post.ClientID,
		pq.Array(&post.Channels),
		&post.ContentType,
		&post.Caption,
		pq.Array(&post.MediaRefs),
		&post.IsDraft,
		&post.ApprovalStatus,
		&post.ScheduledAt,
		&post.Status,
		&post.PublishedAt,
		&errorMessage,
		&resultsJSON,
		&rejectionReason,
		&post.CreatedBy,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ErrorMessage = errorMessage.String
	post.RejectionReason = rejectionReason.String
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &post.PerChannelResults); err != nil {
			slog.Info(err.Error())
		}
	}

	return &post, nil
}

func collectPostRecords(rows *sql.Rows) ([]*models.PostRecord, error) {
	var posts []*models.PostRecord
	for rows.Next() {
		post, err := scanPostRecord(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
