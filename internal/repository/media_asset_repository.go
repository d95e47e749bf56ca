package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/valleops/postpilot/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, ma *models.MediaAsset) error
	GetByID(ctx context.Context, id string) (*models.MediaAsset, error)
	ListByClientID(ctx context.Context, clientID string) ([]*models.MediaAsset, error)
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, ma *models.MediaAsset) error {
	query := `
		INSERT INTO media_assets (id, client_id, file_name, file_type, file_size, file_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		ma.ID, ma.ClientID, ma.FileName, ma.FileType, ma.FileSize, ma.FileURL, ma.CreatedBy)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	query := `
		SELECT id, client_id, file_name, file_type, file_size, file_url, created_by, created_at
		FROM media_assets
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var ma models.MediaAsset
	err := row.Scan(&ma.ID, &ma.ClientID, &ma.FileName, &ma.FileType, &ma.FileSize, &ma.FileURL, &ma.CreatedBy, &ma.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ma, nil
}

func (r *mediaAssetRepository) ListByClientID(ctx context.Context, clientID string) ([]*models.MediaAsset, error) {
	query := `
		SELECT id, client_id, file_name, file_type, file_size, file_url, created_by, created_at
		FROM media_assets
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var assets []*models.MediaAsset
	for rows.Next() {
		var ma models.MediaAsset
		err := rows.Scan(&ma.ID, &ma.ClientID, &ma.FileName, &ma.FileType, &ma.FileSize, &ma.FileURL, &ma.CreatedBy, &ma.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, &ma)
	}
	return assets, rows.Err()
}
