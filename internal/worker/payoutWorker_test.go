package worker

import (
	"sync"
	"testing"

	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWorker(mockDB *mocks.MockDatabase) *Worker {
	baseURL := "http://localhost"
	var wg sync.WaitGroup

	return &Worker{
		DB:     mockDB,
		Helper: helper.New(&baseURL, &wg, nil),
	}
}

func TestDisbursePayout(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	due := &DuePayout{
		PlanID:       "plan-1",
		WalletID:     "wallet-1",
		UserID:       "user-1",
		PlanName:     "School fees",
		PayoutAmount: decimal.NewFromInt(50_000),
		Frequency:    repository.PlanFrequencyMonthly,
	}

	updatedPlan := &models.PayoutPlan{
		ID:               "plan-1",
		Name:             "School fees",
		TotalAmount:      decimal.NewFromInt(500_000),
		Duration:         10,
		CompletedPayouts: 3,
		Status:           repository.PlanActiveStatus,
	}

	// a scheduled payout releases the full amount with no fee withheld
	mockDB.WalletRepo.On("ReleaseLocked", "wallet-1", due.PayoutAmount, decimal.Zero).Return(true, nil)
	mockDB.PlanRepo.On("RecordDisbursement", "plan-1", mock.Anything).Return(updatedPlan, nil)
	mockDB.TransactionRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	mockDB.TransactionRepo.On("UpdateStatus", "txn-1", repository.TransactionStatusCompleted).Return(true, nil)

	wk := newTestWorker(mockDB)

	disbursed := wk.disbursePayout(due)

	require.NotNil(t, disbursed)
	require.Equal(t, "plan-1", disbursed.PlanID)
	require.Equal(t, "txn-1", disbursed.TransactionID)
	require.Equal(t, 3, disbursed.CompletedPayouts)
	require.True(t, disbursed.PayoutAmount.Equal(due.PayoutAmount))
	require.NotEmpty(t, disbursed.Reference)

	mockDB.WalletRepo.AssertExpectations(t)
	mockDB.PlanRepo.AssertExpectations(t)
	mockDB.TransactionRepo.AssertExpectations(t)
}

func TestDisbursePayout_InsufficientLockedFunds(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	due := &DuePayout{
		PlanID:       "plan-1",
		WalletID:     "wallet-1",
		PayoutAmount: decimal.NewFromInt(50_000),
		Frequency:    repository.PlanFrequencyMonthly,
	}

	// the sweep will pick this plan up again; nothing is written
	mockDB.WalletRepo.On("ReleaseLocked", "wallet-1", due.PayoutAmount, decimal.Zero).Return(false, nil)

	wk := newTestWorker(mockDB)

	disbursed := wk.disbursePayout(due)

	require.Nil(t, disbursed)
	mockDB.PlanRepo.AssertNotCalled(t, "RecordDisbursement", mock.Anything, mock.Anything)
	mockDB.TransactionRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
