package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postWithdrawal(t *testing.T, h *WithdrawalHandler, user *models.User, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	requestBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/withdrawals", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	req = context.ContextSetAuthenticatedUser(req, user)

	rr := httptest.NewRecorder()
	h.HandleEmergencyWithdrawal(rr, req)

	return rr
}

func TestHandleEmergencyWithdrawal_RejectsWrongPin(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	testUser := &models.User{
		ID:  "user-1",
		Pin: sql.NullInt32{Int32: 1234, Valid: true},
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
		"pin":     4321,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), ErrInvalidPin.Error())
}

func TestHandleEmergencyWithdrawal_RejectsMissingPin(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	testUser := &models.User{
		ID: "user-1",
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandleEmergencyWithdrawal_RejectsInactivePlan(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	testUser := &models.User{
		ID:  "user-1",
		Pin: sql.NullInt32{Int32: 1234, Valid: true},
	}

	cancelledPlan := &models.PayoutPlan{
		ID:     "plan-1",
		UserID: testUser.ID,
		Status: repository.PlanCancelledStatus,
	}

	mockDB.PlanRepo.On("GetOne", "plan-1").Return(cancelledPlan, true, nil)

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
		"pin":     1234,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), ErrInactivePlan.Error())
	mockDB.PlanRepo.AssertExpectations(t)
}

func TestHandleEmergencyWithdrawal_RejectsOtherUsersPlan(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	testUser := &models.User{
		ID:  "user-1",
		Pin: sql.NullInt32{Int32: 1234, Valid: true},
	}

	foreignPlan := &models.PayoutPlan{
		ID:     "plan-1",
		UserID: "someone-else",
		Status: repository.PlanActiveStatus,
	}

	mockDB.PlanRepo.On("GetOne", "plan-1").Return(foreignPlan, true, nil)

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
		"pin":     1234,
	})

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandleEmergencyWithdrawal_LosingConcurrentRequestIsRejected(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	testUser := &models.User{
		ID:  "user-1",
		Pin: sql.NullInt32{Int32: 1234, Valid: true},
	}

	activePlan := &models.PayoutPlan{
		ID:               "plan-1",
		UserID:           testUser.ID,
		WalletID:         "wallet-1",
		Status:           repository.PlanActiveStatus,
		PayoutAmount:     decimal.NewFromInt(50_000),
		TotalAmount:      decimal.NewFromInt(500_000),
		Duration:         10,
		CompletedPayouts: 1,
	}

	mockDB.PlanRepo.On("GetOne", "plan-1").Return(activePlan, true, nil)

	// both requests read the plan as active, but the conditional transition
	// only lets one through; this request loses the race
	mockDB.PlanRepo.On("UpdateStatusFrom", "plan-1", repository.PlanActiveStatus, repository.PlanPausedStatus).Return(false, nil)

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
		"pin":     1234,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), ErrDuplicateWithdrawal.Error())
	mockDB.PlanRepo.AssertExpectations(t)
	mockDB.TransactionRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandleEmergencyWithdrawal_RejectsFullyDisbursedPlan(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	testUser := &models.User{
		ID:  "user-1",
		Pin: sql.NullInt32{Int32: 1234, Valid: true},
	}

	// every payout has been disbursed; nothing is locked for this plan anymore
	drainedPlan := &models.PayoutPlan{
		ID:               "plan-1",
		UserID:           testUser.ID,
		Status:           repository.PlanActiveStatus,
		PayoutAmount:     decimal.NewFromInt(50_000),
		TotalAmount:      decimal.NewFromInt(500_000),
		Duration:         10,
		CompletedPayouts: 10,
	}

	mockDB.PlanRepo.On("GetOne", "plan-1").Return(drainedPlan, true, nil)

	withdrawalHandler := &WithdrawalHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
	}

	rr := postWithdrawal(t, withdrawalHandler, testUser, map[string]any{
		"plan_id": "plan-1",
		"tier":    "instant",
		"pin":     1234,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), ErrNothingToWithdraw.Error())
}
