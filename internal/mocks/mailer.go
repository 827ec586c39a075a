package mocks

import "github.com/stretchr/testify/mock"

// MockMailer stands in for smtp.MailerInterface in handler and worker tests.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(recipient string, data any, patterns ...string) error {
	args := m.Called(recipient, data, patterns)
	return args.Error(0)
}
