package mocks

import (
	"time"

	"github.com/planmoni/planmoni-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Insert(plan *models.PayoutPlan, tx *sqlx.Tx) (string, error) {
	args := m.Called(plan, tx)
	return args.String(0), args.Error(1)
}

func (m *MockPlanRepo) GetOne(id string) (*models.PayoutPlan, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.PayoutPlan), args.Bool(1), args.Error(2)
}

func (m *MockPlanRepo) GetAllByUserId(userID string) ([]models.PayoutPlan, bool, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.PayoutPlan), args.Bool(1), args.Error(2)
}

func (m *MockPlanRepo) DueForPayout(limit int) ([]models.PayoutPlan, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.PayoutPlan), args.Error(1)
}

func (m *MockPlanRepo) RecordDisbursement(id string, nextPayoutAt time.Time) (*models.PayoutPlan, error) {
	args := m.Called(id, nextPayoutAt)
	return args.Get(0).(*models.PayoutPlan), args.Error(1)
}

func (m *MockPlanRepo) UpdateStatus(id, status string) (bool, error) {
	args := m.Called(id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	args := m.Called(id, from, to)
	return args.Bool(0), args.Error(1)
}
