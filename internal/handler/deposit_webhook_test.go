package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/paystack"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const webhookTestSecret = "test_secret"

// fakeVerifyServer answers every Paystack verify call with a successful
// charge of the given amount in kobo.
func fakeVerifyServer(t *testing.T, reference string, amountKobo int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":true,"message":"Verification successful","data":{"status":"success","reference":%q,"amount":%d}}`, reference, amountKobo)
	}))
}

func postWebhook(t *testing.T, h *DepositHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	mac := hmac.New(sha512.New, []byte(webhookTestSecret))
	mac.Write(body)

	req, err := http.NewRequest("POST", "/webhooks/paystack", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))

	rr := httptest.NewRecorder()
	h.HandlePaystackWebhook(rr, req)

	return rr
}

func TestHandlePaystackWebhook_RetryAfterFailedCredit(t *testing.T) {
	mockDB := mocks.NewMockDatabase()
	mockCache := mocks.NewMockCache()
	mockMailer := new(mocks.MockMailer)

	server := fakeVerifyServer(t, "DEP-abc", 5_000_000)
	defer server.Close()

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup

	pendingTxn := &models.Transaction{
		ID:              "txn-1",
		UserID:          "user-1",
		WalletID:        "wallet-1",
		Type:            repository.TransactionTypeDeposit,
		Status:          repository.TransactionStatusPending,
		ReferenceNumber: "DEP-abc",
	}

	nairaAmount := mock.MatchedBy(func(amount decimal.Decimal) bool {
		return amount.Equal(decimal.NewFromInt(50_000))
	})

	mockDB.TransactionRepo.On("FindByReference", "DEP-abc").Return(pendingTxn, true, nil)

	// the first delivery dies at the wallet credit; the provider's retry of
	// the same event must get through and complete the deposit
	mockDB.WalletRepo.On("Credit", "wallet-1", nairaAmount).Return(false, errors.New("deadlock detected")).Once()
	mockDB.WalletRepo.On("Credit", "wallet-1", nairaAmount).Return(true, nil).Once()

	mockDB.TransactionRepo.On("UpdateStatus", "txn-1", repository.TransactionStatusCompleted).Return(true, nil).Once()
	mockDB.ActivityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)
	mockDB.UserRepo.On("GetOne", "user-1").Return(&models.User{ID: "user-1", Email: "test@example.com"}, true, nil)
	mockMailer.On("Send", "test@example.com", mock.Anything, mock.Anything).Return(nil)

	depositHandler := &DepositHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     helper.New(&baseURL, &wg, newTestErrorHandler()),
		Mailer:     mockMailer,
		Cache:      mockCache,
		Paystack:   paystack.New(webhookTestSecret, server.URL),
	}

	body := []byte(`{"event":"charge.success","data":{"reference":"DEP-abc"}}`)

	rr := postWebhook(t, depositHandler, body)
	wg.Wait()
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = postWebhook(t, depositHandler, body)
	wg.Wait()
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Deposit confirmed")

	// once the deposit has settled, further deliveries of the same event are
	// dropped by the replay guard
	rr = postWebhook(t, depositHandler, body)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Event already processed")

	mockDB.WalletRepo.AssertExpectations(t)
	mockDB.TransactionRepo.AssertExpectations(t)
}

func TestHandlePaystackWebhook_RejectsBadSignature(t *testing.T) {
	mockDB := mocks.NewMockDatabase()
	mockCache := mocks.NewMockCache()

	depositHandler := &DepositHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Cache:      mockCache,
		Paystack:   paystack.New(webhookTestSecret, "http://localhost"),
	}

	body := []byte(`{"event":"charge.success","data":{"reference":"DEP-abc"}}`)

	req, err := http.NewRequest("POST", "/webhooks/paystack", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("x-paystack-signature", "not-a-real-signature")

	rr := httptest.NewRecorder()
	depositHandler.HandlePaystackWebhook(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	mockDB.TransactionRepo.AssertNotCalled(t, "FindByReference", mock.Anything)
}
