package worker

import (
	"testing"

	"github.com/planmoni/planmoni-api/internal/handler"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSettleWithdrawal(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	withdrawal := &handler.InitiatedWithdrawal{
		TransactionID:   "txn-1",
		ReferenceNumber: "EWD-1",
		PlanID:          "plan-1",
		WalletID:        "wallet-1",
		UserID:          "user-1",
		Principal:       decimal.NewFromInt(450_000),
		FeeAmount:       decimal.NewFromInt(54_000),
		NetAmount:       decimal.NewFromInt(396_000),
		Tier:            "instant",
	}

	mockDB.WalletRepo.On("ReleaseLocked", "wallet-1", withdrawal.Principal, withdrawal.FeeAmount).Return(true, nil)
	mockDB.TransactionRepo.On("UpdateStatus", "txn-1", repository.TransactionStatusCompleted).Return(true, nil)
	mockDB.PlanRepo.On("UpdateStatus", "plan-1", repository.PlanCancelledStatus).Return(true, nil)

	wk := &Worker{DB: mockDB}

	settled := wk.settleWithdrawal(withdrawal)

	require.True(t, settled)
	mockDB.WalletRepo.AssertExpectations(t)
	mockDB.TransactionRepo.AssertExpectations(t)
	mockDB.PlanRepo.AssertExpectations(t)
}

func TestSettleWithdrawal_InsufficientLockedFunds(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	withdrawal := &handler.InitiatedWithdrawal{
		TransactionID: "txn-1",
		PlanID:        "plan-1",
		WalletID:      "wallet-1",
		Principal:     decimal.NewFromInt(450_000),
		FeeAmount:     decimal.NewFromInt(54_000),
	}

	// the quoted principal can no longer be covered; the transaction must
	// fail and the plan must go back to active, but only from paused so a
	// plan already cancelled by a completed settlement stays cancelled
	mockDB.WalletRepo.On("ReleaseLocked", "wallet-1", withdrawal.Principal, withdrawal.FeeAmount).Return(false, nil)
	mockDB.TransactionRepo.On("UpdateStatus", "txn-1", repository.TransactionStatusFailed).Return(true, nil)
	mockDB.PlanRepo.On("UpdateStatusFrom", "plan-1", repository.PlanPausedStatus, repository.PlanActiveStatus).Return(true, nil)

	wk := &Worker{DB: mockDB}

	settled := wk.settleWithdrawal(withdrawal)

	require.False(t, settled)
	mockDB.TransactionRepo.AssertExpectations(t)
	mockDB.PlanRepo.AssertExpectations(t)
	mockDB.TransactionRepo.AssertNotCalled(t, "UpdateStatus", "txn-1", repository.TransactionStatusCompleted)
	mockDB.PlanRepo.AssertNotCalled(t, "UpdateStatus", "plan-1", repository.PlanActiveStatus)
}
