// Håndskrevne testify-mocks for runner-avhengighetene.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jonmartinstorm/reposamler/internal/models"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchDay(ctx context.Context, date string) ([]models.RawRepo, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawRepo), args.Error(1)
}

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Load(ctx context.Context, rows []models.CleanRepo) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}
