package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/shopspring/decimal"
)

const (
	WalletActiveStatus = "active"
	WalletOnHoldStatus = "on-hold"
)

type WalletRepository interface {
	Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.Wallet, bool, error)
	GetByUserId(userID string) (*models.Wallet, bool, error)
	FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error)
	Credit(walletID string, amount decimal.Decimal) (bool, error)
	LockAmount(walletID string, amount decimal.Decimal) (bool, error)
	ReleaseLocked(walletID string, principal, fee decimal.Decimal) (bool, error)
	Lock(id string) error
}

type WalletRepositoryImpl struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

func (repo *WalletRepositoryImpl) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO wallets (user_id, account_number)
		VALUES ($1, $2)
		RETURNING id`

	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			wallet.UserID,
			wallet.AccountNumber,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			wallet.UserID,
			wallet.AccountNumber,
		)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *WalletRepositoryImpl) GetOne(id string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
		SELECT id, user_id, available_balance, locked_balance, currency, account_number, status, created_at
		FROM wallets WHERE id = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &wallet, true, nil
}

func (repo *WalletRepositoryImpl) GetByUserId(userID string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
		SELECT id, user_id, available_balance, locked_balance, currency, account_number, status, created_at
		FROM wallets WHERE user_id = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &wallet, true, nil
}

func (repo *WalletRepositoryImpl) FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
		SELECT id, user_id, available_balance, locked_balance, currency, account_number, status, created_at
		FROM wallets WHERE account_number = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, accountNumber)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &wallet, true, nil
}

// Credit adds funds to the available balance. Used when a deposit is
// confirmed or a scheduled payout is disbursed.
func (repo *WalletRepositoryImpl) Credit(walletID string, amount decimal.Decimal) (bool, error) {
	// we'll use pessimistic lock to hold the account for the duration of the operation
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var wallet models.Wallet

	query := `
		SELECT available_balance FROM wallets WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err = tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		return false, err
	}

	query = `
		UPDATE wallets SET available_balance = available_balance + $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL`

	_, err = tx.ExecContext(ctx, query, amount, walletID)
	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, err
	}

	return true, nil
}

// LockAmount moves funds from the available balance into the locked balance
// when a payout plan is created. It fails cleanly, not with an error, when
// the available balance can't cover the amount.
func (repo *WalletRepositoryImpl) LockAmount(walletID string, amount decimal.Decimal) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var wallet models.Wallet

	query := `
		SELECT available_balance FROM wallets WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err = tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		return false, err
	}

	if wallet.AvailableBalance.LessThan(amount) {
		return false, nil
	}

	query = `
		UPDATE wallets
		SET available_balance = available_balance - $1,
			locked_balance = locked_balance + $1,
			updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL`

	_, err = tx.ExecContext(ctx, query, amount, walletID)
	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, err
	}

	return true, nil
}

// ReleaseLocked moves principal out of the locked balance and credits the
// available balance with principal minus fee. A zero fee releases a
// scheduled payout; a non-zero fee settles an emergency withdrawal. It fails
// cleanly when the locked balance can't cover the principal.
func (repo *WalletRepositoryImpl) ReleaseLocked(walletID string, principal, fee decimal.Decimal) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var wallet models.Wallet

	query := `
		SELECT locked_balance FROM wallets WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err = tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		return false, err
	}

	if wallet.LockedBalance.LessThan(principal) {
		return false, nil
	}

	query = `
		UPDATE wallets
		SET locked_balance = locked_balance - $1,
			available_balance = available_balance + $2,
			updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL`

	_, err = tx.ExecContext(ctx, query, principal, principal.Sub(fee), walletID)
	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, err
	}

	return true, nil
}

func (repo *WalletRepositoryImpl) Lock(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE wallets SET status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, WalletOnHoldStatus, id)
	return err
}
