package mocks

import (
	"github.com/planmoni/planmoni-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CheckIfPhoneNumberExist(phoneNumber string) (bool, error) {
	return false, nil
}

func (m *MockUserRepo) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, bool, error) {
	args := m.Called(email)
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) UpdateKycTier(id string, tier int16) error {
	args := m.Called(id, tier)
	return args.Error(0)
}

func (m *MockUserRepo) ChangePin(id string, pin int) error {
	return nil
}

func (m *MockUserRepo) Lock(id string) error {
	return nil
}
