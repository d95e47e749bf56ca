package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/valleops/postpilot/internal/models"
)

type UserProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
}

type userProfileRepository struct {
	db *sql.DB
}

func NewUserProfileRepository(db *sql.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

func (r *userProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT user_id, name, role, created_at FROM user_profiles WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var up models.UserProfile
	err := row.Scan(&up.UserID, &up.Name, &up.Role, &up.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &up, nil
}

type AreaAssignmentRepository interface {
	HasAreaForClient(ctx context.Context, userID, clientID string, areas []string) (bool, error)
}

type areaAssignmentRepository struct {
	db *sql.DB
}

func NewAreaAssignmentRepository(db *sql.DB) AreaAssignmentRepository {
	return &areaAssignmentRepository{db: db}
}

func (r *areaAssignmentRepository) HasAreaForClient(ctx context.Context, userID, clientID string, areas []string) (bool, error) {
	query := `
		SELECT 1 FROM area_assignments
		WHERE user_id = $1 AND client_id = $2 AND area = ANY($3)
		LIMIT 1
	`

	var result int
	err := r.db.QueryRowContext(ctx, query, userID, clientID, pq.Array(areas)).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
