package mocks

import (
	"github.com/planmoni/planmoni-api/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) Insert(verification *models.KYCVerification) (string, error) {
	args := m.Called(verification)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationRepo) LatestByCategory(userID, category string) (*models.KYCVerification, bool, error) {
	args := m.Called(userID, category)
	return args.Get(0).(*models.KYCVerification), args.Bool(1), args.Error(2)
}

func (m *MockVerificationRepo) GetAllByUserId(userID string) ([]models.KYCVerification, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.KYCVerification), args.Error(1)
}

func (m *MockVerificationRepo) UpdateStatus(id, status string) error {
	return nil
}
