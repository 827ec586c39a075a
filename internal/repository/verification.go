package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/planmoni/planmoni-api/internal/models"
)

type VerificationRepository interface {
	Insert(verification *models.KYCVerification) (string, error)
	LatestByCategory(userID, category string) (*models.KYCVerification, bool, error)
	GetAllByUserId(userID string) ([]models.KYCVerification, error)
	UpdateStatus(id, status string) error
}

type VerificationRepositoryImpl struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &VerificationRepositoryImpl{db: db}
}

func (repo *VerificationRepositoryImpl) Insert(verification *models.KYCVerification) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO kyc_verifications (user_id, category, provider, provider_reference, document_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		verification.UserID,
		verification.Category,
		verification.Provider,
		verification.ProviderReference,
		verification.DocumentURL,
		verification.Status,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

// LatestByCategory returns the most recent verification attempt a user has
// made in the given category. Older attempts never count towards the tier.
func (repo *VerificationRepositoryImpl) LatestByCategory(userID, category string) (*models.KYCVerification, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var verification models.KYCVerification

	query := `
		SELECT id, user_id, category, provider, provider_reference, document_url, status, created_at
		FROM kyc_verifications
		WHERE user_id = $1 AND category = $2
		ORDER BY created_at DESC
		LIMIT 1`

	err := repo.db.GetContext(ctx, &verification, query, userID, category)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &verification, true, nil
}

func (repo *VerificationRepositoryImpl) GetAllByUserId(userID string) ([]models.KYCVerification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var verifications []models.KYCVerification

	query := `
		SELECT id, user_id, category, provider, provider_reference, document_url, status, created_at
		FROM kyc_verifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &verifications, query, userID)
	if err != nil {
		return nil, err
	}

	return verifications, nil
}

func (repo *VerificationRepositoryImpl) UpdateStatus(id, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE kyc_verifications SET status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}
