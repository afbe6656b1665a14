package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/internal/storage"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, query string) service.SearchState {
	args := m.Called(ctx, query)
	return args.Get(0).(service.SearchState)
}

func (m *MockCatalog) ScopedSearch(ctx context.Context, subject, semester, query string) service.SearchState {
	args := m.Called(ctx, subject, semester, query)
	return args.Get(0).(service.SearchState)
}

func (m *MockCatalog) Browse(ctx context.Context, subject, semester string) service.BrowseState {
	args := m.Called(ctx, subject, semester)
	return args.Get(0).(service.BrowseState)
}

func (m *MockCatalog) Get(ctx context.Context, id string) (*model.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockCatalog) OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Resource, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	info, _ := args.Get(1).(storage.ObjectInfo)
	r, _ := args.Get(2).(*model.Resource)
	return rc, info, r, args.Error(3)
}
