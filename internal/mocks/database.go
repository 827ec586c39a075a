package mocks

import (
	"context"
	"database/sql"

	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/jmoiron/sqlx"
)

// MockDatabase satisfies repository.Database for handler tests. Only the
// repositories a test cares about need to be populated.
type MockDatabase struct {
	UserRepo         *MockUserRepo
	WalletRepo       *MockWalletRepo
	PlanRepo         *MockPlanRepo
	TransactionRepo  *MockTransactionRepo
	VerificationRepo *MockVerificationRepo
	ActivityRepo     *MockActivityRepo
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		UserRepo:         new(MockUserRepo),
		WalletRepo:       new(MockWalletRepo),
		PlanRepo:         new(MockPlanRepo),
		TransactionRepo:  new(MockTransactionRepo),
		VerificationRepo: new(MockVerificationRepo),
		ActivityRepo:     new(MockActivityRepo),
	}
}

func (m *MockDatabase) User() repository.UserRepository {
	return m.UserRepo
}

func (m *MockDatabase) Wallet() repository.WalletRepository {
	return m.WalletRepo
}

func (m *MockDatabase) Plan() repository.PlanRepository {
	return m.PlanRepo
}

func (m *MockDatabase) Transaction() repository.TransactionRepository {
	return m.TransactionRepo
}

func (m *MockDatabase) Verification() repository.VerificationRepository {
	return m.VerificationRepo
}

func (m *MockDatabase) Activity() repository.ActivityRepository {
	return m.ActivityRepo
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, nil
}
