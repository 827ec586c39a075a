package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/planmoni/planmoni-api/internal/models"
)

const (
	ActivityLogUserEntity        = "user"
	ActivityLogTransactionEntity = "transaction"
	ActivityLogPlanEntity        = "payout_plan"
	ActivityLogKycEntity         = "kyc_verification"
)

type ActivityRepository interface {
	Insert(log *models.ActivityLog) (*models.ActivityLog, error)
	CountConsecutiveFailedLoginAttempts(userID, actionDescription string) int
}

type ActivityRepositoryImpl struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (repo *ActivityRepositoryImpl) Insert(log *models.ActivityLog) (*models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO activity_logs (user_id, entity, entity_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := repo.db.QueryRowContext(ctx, query,
		log.UserID,
		log.Entity,
		log.EntityID,
		log.Description,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, err
	}

	return log, nil
}

// CountConsecutiveFailedLoginAttempts counts failed login records newer than
// the user's last successful login. A query error counts as zero.
func (repo *ActivityRepositoryImpl) CountConsecutiveFailedLoginAttempts(userID, actionDescription string) int {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var count int

	query := `
		SELECT COUNT(*) FROM activity_logs
		WHERE user_id = $1
			AND description = $2
			AND created_at > COALESCE(
				(SELECT MAX(created_at) FROM activity_logs
					WHERE user_id = $1 AND entity = $3 AND description != $2),
				'epoch'::timestamptz
			)`

	err := repo.db.GetContext(ctx, &count, query, userID, actionDescription, ActivityLogUserEntity)
	if err != nil {
		return 0
	}

	return count
}
