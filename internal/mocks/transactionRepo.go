package mocks

import (
	"time"

	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error) {
	args := m.Called(transaction, tx)

	// fill in what the database would have generated
	transaction.ID = "txn-1"
	transaction.Status = repository.TransactionStatusPending
	transaction.CreatedAt = time.Now()

	return transaction, args.Error(0)
}

func (m *MockTransactionRepo) GetOne(id string) (*models.Transaction, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) FindByReference(referenceNumber string) (*models.Transaction, bool, error) {
	args := m.Called(referenceNumber)
	return args.Get(0).(*models.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) GetAllByUserId(userID string, filter *repository.TransactionFilter) ([]models.Transaction, error) {
	args := m.Called(userID, filter)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) UpdateStatus(id, status string) (bool, error) {
	args := m.Called(id, status)
	return args.Bool(0), args.Error(1)
}
