package mocks

import (
	"github.com/planmoni/planmoni-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockWalletRepo) GetOne(id string) (*models.Wallet, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Wallet), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) GetByUserId(userID string) (*models.Wallet, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(*models.Wallet), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error) {
	return nil, false, nil
}

func (m *MockWalletRepo) Credit(walletID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(walletID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepo) LockAmount(walletID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(walletID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepo) ReleaseLocked(walletID string, principal, fee decimal.Decimal) (bool, error) {
	args := m.Called(walletID, principal, fee)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepo) Lock(id string) error {
	return nil
}
