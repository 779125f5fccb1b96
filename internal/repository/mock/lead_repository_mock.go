package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
)

// LeadRepositoryMock is a mock implementation of repository.LeadRepository.
type LeadRepositoryMock struct {
	mock.Mock
}

var _ repository.LeadRepository = (*LeadRepositoryMock)(nil)

// Create mocks the Create method.
func (m *LeadRepositoryMock) Create(ctx context.Context, lead *domain.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// List mocks the List method.
func (m *LeadRepositoryMock) List(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	args := m.Called(ctx, filter)
	leads, _ := args.Get(0).([]domain.Lead)
	return leads, args.Error(1)
}
