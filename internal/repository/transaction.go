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
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

const (
	TransactionTypeDeposit             = "deposit"
	TransactionTypePayout              = "payout"
	TransactionTypeEmergencyWithdrawal = "emergency_withdrawal"
)

// TransactionFilter narrows listing queries; zero values mean "no filter".
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
	Limit     int
	Offset    int
}

type TransactionRepository interface {
	Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error)
	GetOne(id string) (*models.Transaction, bool, error)
	FindByReference(referenceNumber string) (*models.Transaction, bool, error)
	GetAllByUserId(userID string, filter *TransactionFilter) ([]models.Transaction, error)
	UpdateStatus(id, status string) (bool, error)
}

type TransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (repo *TransactionRepositoryImpl) Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO transactions
			(user_id, wallet_id, plan_id, type, amount, fee_amount, reference_number, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at`

	args := []any{
		transaction.UserID,
		transaction.WalletID,
		transaction.PlanID,
		transaction.Type,
		transaction.Amount,
		transaction.FeeAmount,
		transaction.ReferenceNumber,
		transaction.Description,
	}

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, args...)
	} else {
		row = repo.db.QueryRowContext(ctx, query, args...)
	}

	err := row.Scan(&transaction.ID, &transaction.Status, &transaction.CreatedAt)
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

func (repo *TransactionRepositoryImpl) GetOne(id string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transaction models.Transaction

	query := `
		SELECT id, user_id, wallet_id, plan_id, type, amount, fee_amount, reference_number,
			status, description, created_at, updated_at
		FROM transactions WHERE id = $1`

	err := repo.db.GetContext(ctx, &transaction, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &transaction, true, nil
}

func (repo *TransactionRepositoryImpl) FindByReference(referenceNumber string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transaction models.Transaction

	query := `
		SELECT id, user_id, wallet_id, plan_id, type, amount, fee_amount, reference_number,
			status, description, created_at, updated_at
		FROM transactions WHERE reference_number = $1`

	err := repo.db.GetContext(ctx, &transaction, query, referenceNumber)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &transaction, true, nil
}

func (repo *TransactionRepositoryImpl) GetAllByUserId(userID string, filter *TransactionFilter) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if filter == nil {
		filter = &TransactionFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	var transactions []models.Transaction

	query := `
		SELECT id, user_id, wallet_id, plan_id, type, amount, fee_amount, reference_number,
			status, description, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::timestamptz IS NULL OR created_at <= $3)
			AND ($4 = '' OR type = $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`

	err := repo.db.SelectContext(ctx, &transactions, query,
		userID,
		filter.StartDate,
		filter.EndDate,
		filter.Type,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (repo *TransactionRepositoryImpl) UpdateStatus(id, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE transactions SET status = $1, updated_at = NOW() WHERE id = $2`

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
