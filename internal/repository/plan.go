package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/planmoni/planmoni-api/internal/models"
)

const (
	PlanActiveStatus    = "active"
	PlanPausedStatus    = "paused"
	PlanCompletedStatus = "completed"
	PlanCancelledStatus = "cancelled"
)

const (
	PlanFrequencyDaily    = "daily"
	PlanFrequencyWeekly   = "weekly"
	PlanFrequencyMonthly  = "monthly"
	PlanFrequencyBiweekly = "biweekly"
)

type PlanRepository interface {
	Insert(plan *models.PayoutPlan, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.PayoutPlan, bool, error)
	GetAllByUserId(userID string) ([]models.PayoutPlan, bool, error)
	DueForPayout(limit int) ([]models.PayoutPlan, error)
	RecordDisbursement(id string, nextPayoutAt time.Time) (*models.PayoutPlan, error)
	UpdateStatus(id, status string) (bool, error)
	UpdateStatusFrom(id, from, to string) (bool, error)
}

type PlanRepositoryImpl struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &PlanRepositoryImpl{db: db}
}

func (repo *PlanRepositoryImpl) Insert(plan *models.PayoutPlan, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO payout_plans
			(user_id, wallet_id, name, payout_amount, total_amount, duration, frequency, next_payout_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	args := []any{
		plan.UserID,
		plan.WalletID,
		plan.Name,
		plan.PayoutAmount,
		plan.TotalAmount,
		plan.Duration,
		plan.Frequency,
		plan.NextPayoutAt,
	}

	if tx != nil {
		err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query, args...)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *PlanRepositoryImpl) GetOne(id string) (*models.PayoutPlan, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var plan models.PayoutPlan

	query := `
		SELECT id, user_id, wallet_id, name, payout_amount, total_amount, duration,
			completed_payouts, frequency, status, next_payout_at, created_at, updated_at
		FROM payout_plans WHERE id = $1`

	err := repo.db.GetContext(ctx, &plan, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &plan, true, nil
}

func (repo *PlanRepositoryImpl) GetAllByUserId(userID string) ([]models.PayoutPlan, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var plans []models.PayoutPlan

	query := `
		SELECT id, user_id, wallet_id, name, payout_amount, total_amount, duration,
			completed_payouts, frequency, status, next_payout_at, created_at, updated_at
		FROM payout_plans WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &plans, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return plans, len(plans) > 0, nil
}

// DueForPayout returns active plans whose next payout date has passed.
// The scheduler feeds these to the disbursement pipeline.
func (repo *PlanRepositoryImpl) DueForPayout(limit int) ([]models.PayoutPlan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var plans []models.PayoutPlan

	query := `
		SELECT id, user_id, wallet_id, name, payout_amount, total_amount, duration,
			completed_payouts, frequency, status, next_payout_at, created_at, updated_at
		FROM payout_plans
		WHERE status = $1 AND next_payout_at IS NOT NULL AND next_payout_at <= NOW()
		ORDER BY next_payout_at ASC
		LIMIT $2`

	err := repo.db.SelectContext(ctx, &plans, query, PlanActiveStatus, limit)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

// RecordDisbursement bumps the completed payout counter, schedules the next
// payout, and marks the plan completed when the counter reaches the
// duration. It returns the updated plan.
func (repo *PlanRepositoryImpl) RecordDisbursement(id string, nextPayoutAt time.Time) (*models.PayoutPlan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var plan models.PayoutPlan

	query := `
		UPDATE payout_plans
		SET completed_payouts = completed_payouts + 1,
			status = CASE WHEN completed_payouts + 1 >= duration THEN 'completed' ELSE status END,
			next_payout_at = CASE WHEN completed_payouts + 1 >= duration THEN NULL ELSE $1 END,
			updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, wallet_id, name, payout_amount, total_amount, duration,
			completed_payouts, frequency, status, next_payout_at, created_at, updated_at`

	err := repo.db.GetContext(ctx, &plan, query, nextPayoutAt, id)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (repo *PlanRepositoryImpl) UpdateStatus(id, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE payout_plans SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := repo.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// UpdateStatusFrom moves a plan from one status to another in a single
// statement. A false return means the plan was not in the expected status, so
// exactly one of any number of concurrent callers wins the transition.
func (repo *PlanRepositoryImpl) UpdateStatusFrom(id, from, to string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE payout_plans SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := repo.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
