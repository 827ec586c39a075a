package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/kyc"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"

	"github.com/stretchr/testify/require"
)

func kycStatusRequest(t *testing.T, h *KycHandler, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("GET", "/kyc/status", nil)
	require.NoError(t, err)

	req = context.ContextSetAuthenticatedUser(req, user)

	rr := httptest.NewRecorder()
	h.HandleKycStatus(rr, req)

	return rr
}

func TestHandleKycStatus_IdentityVerifiedDocumentPending(t *testing.T) {
	mockDB := mocks.NewMockDatabase()
	mockCache := mocks.NewMockCache()

	testUser := &models.User{
		ID:      "user-1",
		KycTier: 1,
	}

	identityRecord := &models.KYCVerification{
		ID:        "ver-1",
		UserID:    testUser.ID,
		Category:  kyc.CategoryIdentity,
		Status:    string(kyc.StatusVerified),
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}

	documentRecord := &models.KYCVerification{
		ID:        "ver-2",
		UserID:    testUser.ID,
		Category:  kyc.CategoryDocument,
		Status:    string(kyc.StatusPending),
		CreatedAt: time.Now(),
	}

	mockDB.VerificationRepo.On("LatestByCategory", testUser.ID, kyc.CategoryIdentity).Return(identityRecord, true, nil)
	mockDB.VerificationRepo.On("LatestByCategory", testUser.ID, kyc.CategoryDocument).Return(documentRecord, true, nil)

	// a verified identity with an unsettled document lands on tier 2, and the
	// stale profile copy must be refreshed
	mockDB.UserRepo.On("UpdateKycTier", testUser.ID, int16(2)).Return(nil)

	kycHandler := &KycHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Cache:      mockCache,
	}

	rr := kycStatusRequest(t, kycHandler, testUser)

	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Data struct {
			Tier     int `json:"tier"`
			Identity struct {
				Status string `json:"status"`
			} `json:"identity"`
			Document struct {
				Status string `json:"status"`
			} `json:"document"`
		} `json:"data"`
	}

	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Equal(t, 2, response.Data.Tier)
	require.Equal(t, "verified", response.Data.Identity.Status)
	require.Equal(t, "pending", response.Data.Document.Status)

	cachedTier, err := mockCache.Get("kyc:tier:" + testUser.ID)
	require.NoError(t, err)
	require.Equal(t, "2", cachedTier)

	mockDB.VerificationRepo.AssertExpectations(t)
	mockDB.UserRepo.AssertExpectations(t)
}

func TestHandleKycStatus_NoRecordsIsBasicTier(t *testing.T) {
	mockDB := mocks.NewMockDatabase()
	mockCache := mocks.NewMockCache()

	testUser := &models.User{
		ID:      "user-2",
		KycTier: 1,
	}

	// nil records are valid input: the user simply hasn't attempted either
	// category yet
	mockDB.VerificationRepo.On("LatestByCategory", testUser.ID, kyc.CategoryIdentity).Return((*models.KYCVerification)(nil), false, nil)
	mockDB.VerificationRepo.On("LatestByCategory", testUser.ID, kyc.CategoryDocument).Return((*models.KYCVerification)(nil), false, nil)

	kycHandler := &KycHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Cache:      mockCache,
	}

	rr := kycStatusRequest(t, kycHandler, testUser)

	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Data struct {
			Tier     int `json:"tier"`
			Identity struct {
				Status string `json:"status"`
			} `json:"identity"`
		} `json:"data"`
	}

	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Equal(t, 1, response.Data.Tier)
	require.Equal(t, "not_started", response.Data.Identity.Status)

	// tier didn't change, so the profile copy must not be rewritten
	mockDB.UserRepo.AssertNotCalled(t, "UpdateKycTier", testUser.ID, int16(1))
}
