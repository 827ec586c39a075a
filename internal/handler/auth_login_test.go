package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/planmoni/planmoni-api/internal/config"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/mocks"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleAuthLogin_ValidCredentials(t *testing.T) {
	// Arrange
	mockDB := mocks.NewMockDatabase()
	mockMailer := new(mocks.MockMailer)

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testHelper := helper.New(&baseURL, &wg, nil)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	mockDB.UserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)
	mockDB.ActivityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	testConfig := &config.Config{
		BaseURL: "http://localhost",
	}
	testConfig.Jwt.SecretKey = "test_secret"

	authHandler := &AuthHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     testHelper,
		Mailer:     mockMailer,
		Config:     testConfig,
	}

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req, err := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()

	// Act
	authHandler.HandleAuthLogin(rr, req)
	wg.Wait()

	// Assert
	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Contains(t, response, "data")

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "Expected response['data'] to be a map")

	require.Contains(t, data, "auth_token")
	require.Contains(t, data, "token_expiry")
	require.NotEmpty(t, data["auth_token"])

	mockDB.UserRepo.AssertExpectations(t)
	mockDB.ActivityRepo.AssertExpectations(t)
}

func TestHandleAuthLogin_LockedAccount(t *testing.T) {
	mockDB := mocks.NewMockDatabase()

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testHelper := helper.New(&baseURL, &wg, nil)

	lockedUser := &models.User{
		ID:             "123",
		Email:          "locked@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountLockedStatus,
	}

	mockDB.UserRepo.On("GetByEmail", "locked@example.com").Return(lockedUser, true, nil)
	mockDB.ActivityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil).Maybe()

	authHandler := &AuthHandler{
		DB:         mockDB,
		ErrHandler: newTestErrorHandler(),
		Helper:     testHelper,
		Config:     &config.Config{BaseURL: "http://localhost"},
	}

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "locked@example.com",
		"password": "correctpassword",
	})

	req, err := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()

	authHandler.HandleAuthLogin(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusForbidden, rr.Code)
}
