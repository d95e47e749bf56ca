package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/valleops/postpilot/internal/models"
)

type SocialAccountRepository interface {
	GetByClientAndPlatform(ctx context.Context, clientID, platform string) (*models.SocialAccount, error)
	ListByClientID(ctx context.Context, clientID string) ([]*models.SocialAccount, error)
	ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error)
	SetToken(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error
}

type socialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

const socialAccountColumns = `
	id, client_id, platform, account_id, account_name, account_username,
	access_token, refresh_token, token_expires_at, account_status,
	created_at, updated_at
`

func (r *socialAccountRepository) GetByClientAndPlatform(ctx context.Context, clientID, platform string) (*models.SocialAccount, error) {
	query := `
		SELECT ` + socialAccountColumns + `
		FROM social_accounts
		WHERE client_id = $1 AND platform = $2 AND account_status = $3
	`
	row := r.db.QueryRowContext(ctx, query, clientID, platform, models.AccountStatusActive)

	sa, err := scanSocialAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return sa, nil
}

func (r *socialAccountRepository) ListByClientID(ctx context.Context, clientID string) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts WHERE client_id = $1`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		sa, err := scanSocialAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, sa)
	}
	return accounts, rows.Err()
}

func (r *socialAccountRepository) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	query := `
		SELECT ` + socialAccountColumns + `
		FROM social_accounts
		WHERE token_expires_at BETWEEN $1 AND $2 AND account_status = $3
	`

	rows, err := r.db.QueryContext(ctx, query, initialTime, finalTime, models.AccountStatusActive)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		sa, err := scanSocialAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, sa)
	}
	return accounts, rows.Err()
}

func (r *socialAccountRepository) SetToken(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE social_accounts
		SET access_token = $1,
			refresh_token = $2,
			token_expires_at = $3,
			updated_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanSocialAccount(row rowScanner) (*models.SocialAccount, error) {
	var sa models.SocialAccount
	err := row.Scan(
		&sa.ID,
		&sa.ClientID,
		&sa.Platform,
		&sa.AccountID,
		&sa.AccountName,
		&sa.AccountUsername,
		&sa.AccessToken,
		&sa.RefreshToken,
		&sa.TokenExpiresAt,
		&sa.AccountStatus,
		&sa.CreatedAt,
		&sa.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sa, nil
}
