package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyhub/internal/service"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, b service.UploadBatch, onProgress service.ProgressFunc) (*service.BatchResult, error) {
	args := m.Called(ctx, b, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}
