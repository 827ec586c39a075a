package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postPlan(t *testing.T, h *PlanHandler, user *models.User, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	requestBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/plans", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	req = context.ContextSetAuthenticatedUser(req, user)

	rr := httptest.NewRecorder()
	h.HandleCreatePlan(rr, req)

	return rr
}

func newPlanTestHelper(wg *sync.WaitGroup) *helper.HelperRepository {
	baseURL := "http://localhost"
	return helper.New(&baseURL, wg, nil)
}

func TestHandleCreatePlan_LocksTotalAmount(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	var wg sync.WaitGroup

	testUser := &models.User{ID: "user-1"}

	testWallet := &models.Wallet{
		ID:               "wallet-1",
		UserID:           testUser.ID,
		AvailableBalance: decimal.NewFromInt(600_000),
	}

	mockDB.WalletRepo.On("GetByUserId", testUser.ID).Return(testWallet, true, nil)

	// 10 payouts of 50k lock 500k out of the available balance
	mockDB.WalletRepo.On("LockAmount", testWallet.ID, decimal.NewFromInt(500_000)).Return(true, nil)
	mockDB.PlanRepo.On("Insert", mock.Anything, mock.Anything).Return("plan-1", nil)
	mockDB.ActivityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	planHandler := &PlanHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     newPlanTestHelper(&wg),
	}

	rr := postPlan(t, planHandler, testUser, map[string]any{
		"name":          "School fees",
		"payout_amount": "50000",
		"duration":      10,
		"frequency":     repository.PlanFrequencyMonthly,
	})
	wg.Wait()

	require.Equal(t, http.StatusCreated, rr.Code)

	var response struct {
		Data struct {
			ID          string          `json:"id"`
			TotalAmount decimal.Decimal `json:"total_amount"`
		} `json:"data"`
	}

	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Equal(t, "plan-1", response.Data.ID)
	require.True(t, response.Data.TotalAmount.Equal(decimal.NewFromInt(500_000)))

	mockDB.WalletRepo.AssertExpectations(t)
}

func TestHandleCreatePlan_InsufficientBalance(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	var wg sync.WaitGroup

	testUser := &models.User{ID: "user-1"}

	testWallet := &models.Wallet{
		ID:               "wallet-1",
		UserID:           testUser.ID,
		AvailableBalance: decimal.NewFromInt(100),
	}

	mockDB.WalletRepo.On("GetByUserId", testUser.ID).Return(testWallet, true, nil)
	mockDB.WalletRepo.On("LockAmount", testWallet.ID, decimal.NewFromInt(500_000)).Return(false, nil)

	planHandler := &PlanHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     newPlanTestHelper(&wg),
	}

	rr := postPlan(t, planHandler, testUser, map[string]any{
		"name":          "School fees",
		"payout_amount": "50000",
		"duration":      10,
		"frequency":     repository.PlanFrequencyMonthly,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), ErrInsufficientBalance.Error())

	mockDB.PlanRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandleCreatePlan_RejectsNonPositiveDuration(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	var wg sync.WaitGroup

	testUser := &models.User{ID: "user-1"}

	planHandler := &PlanHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     newPlanTestHelper(&wg),
	}

	for _, duration := range []int{0, -3} {
		rr := postPlan(t, planHandler, testUser, map[string]any{
			"name":          "School fees",
			"payout_amount": "50000",
			"duration":      duration,
			"frequency":     repository.PlanFrequencyMonthly,
		})

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	}

	mockDB.WalletRepo.AssertNotCalled(t, "LockAmount", mock.Anything, mock.Anything)
}
