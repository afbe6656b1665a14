package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	repoMocks "studyhub/internal/repository/mocks"
	"studyhub/internal/storage"
	storeMocks "studyhub/internal/storage/mocks"
)

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		query      string
		setupMocks func(mRepo *repoMocks.MockResourceRepository)
		check      func(t *testing.T, st SearchState)
	}{
		{
			name:  "blank query stays idle",
			query: "   ",
			setupMocks: func(mRepo *repoMocks.MockResourceRepository) {
			},
			check: func(t *testing.T, st SearchState) {
				assert.Equal(t, StatusIdle, st.Status)
				assert.False(t, st.Searched())
				assert.NotNil(t, st.Results)
				assert.Empty(t, st.Results)
			},
		},
		{
			name:  "trimmed query over all four fields",
			query: "  os lab ",
			setupMocks: func(mRepo *repoMocks.MockResourceRepository) {
				mRepo.On("Find", ctx, repository.ResourceFilter{
					Query:  "os lab",
					Fields: []string{"title", "description", "subject", "type"},
					Limit:  10,
				}).Return([]model.Resource{{ID: "2"}, {ID: "1"}}, nil)
			},
			check: func(t *testing.T, st SearchState) {
				assert.Equal(t, StatusOK, st.Status)
				assert.True(t, st.Searched())
				assert.Equal(t, "os lab", st.Query)
				require.Len(t, st.Results, 2)
				assert.Equal(t, "2", st.Results[0].ID)
			},
		},
		{
			name:  "no match is a searched empty result",
			query: "zzz",
			setupMocks: func(mRepo *repoMocks.MockResourceRepository) {
				mRepo.On("Find", ctx, mock.Anything).Return([]model.Resource{}, nil)
			},
			check: func(t *testing.T, st SearchState) {
				assert.Equal(t, StatusOK, st.Status)
				assert.True(t, st.Searched())
				assert.Empty(t, st.Results)
			},
		},
		{
			name:  "store failure is folded into the state",
			query: "os",
			setupMocks: func(mRepo *repoMocks.MockResourceRepository) {
				mRepo.On("Find", ctx, mock.Anything).Return(nil, errors.New("connection refused"))
			},
			check: func(t *testing.T, st SearchState) {
				assert.Equal(t, StatusError, st.Status)
				assert.Equal(t, ErrQueryFailed.Error(), st.Error)
				assert.EqualError(t, st.Err, "connection refused")
				assert.NotNil(t, st.Results)
				assert.Empty(t, st.Results)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockResourceRepository)
			tt.setupMocks(mRepo)
			svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

			tt.check(t, svc.Search(ctx, tt.query))

			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ScopedSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("missing scope wins over a blank query", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		svc := NewCatalogService(mRepo, nil, 5, zerolog.Nop())

		st := svc.ScopedSearch(ctx, "CS2005", "", "")
		assert.Equal(t, StatusError, st.Status)
		assert.ErrorIs(t, st.Err, ErrMissingScope)
		mRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("blank query with scope is idle", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		svc := NewCatalogService(mRepo, nil, 5, zerolog.Nop())

		st := svc.ScopedSearch(ctx, "CS2005", "3", " ")
		assert.Equal(t, StatusIdle, st.Status)
		mRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("scoped query excludes subject from matched fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("Find", ctx, repository.ResourceFilter{
			Subject:  "cs2005",
			Semester: "3",
			Query:    "quiz",
			Fields:   []string{"title", "description", "type"},
			Limit:    5,
		}).Return([]model.Resource{{ID: "9"}}, nil)
		svc := NewCatalogService(mRepo, nil, 5, zerolog.Nop())

		st := svc.ScopedSearch(ctx, "cs2005", "3", "quiz")
		assert.Equal(t, StatusOK, st.Status)
		assert.Len(t, st.Results, 1)
		mRepo.AssertExpectations(t)
	})
}

func TestCatalogService_Browse(t *testing.T) {
	ctx := context.Background()

	t.Run("groups by type in store order", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("Find", ctx, repository.ResourceFilter{Subject: "cs2005", Semester: "3"}).
			Return([]model.Resource{
				{ID: "5", Type: model.TypeSlides},
				{ID: "4", Type: model.TypeNotes},
				{ID: "3", Type: "videos"},
				{ID: "2", Type: model.TypeNotes},
				{ID: "1", Type: model.TypePapers},
			}, nil)
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		st := svc.Browse(ctx, " cs2005 ", "3")

		assert.Equal(t, StatusOK, st.Status)
		assert.Equal(t, "cs2005", st.Subject)
		assert.Equal(t, "Database Systems", st.SubjectName)
		require.Len(t, st.Groups.Notes, 2)
		assert.Equal(t, "4", st.Groups.Notes[0].ID)
		assert.Equal(t, "2", st.Groups.Notes[1].ID)
		assert.Len(t, st.Groups.Papers, 1)
		assert.Len(t, st.Groups.Slides, 1)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty catalog yields three empty groups", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("Find", ctx, mock.Anything).Return([]model.Resource{}, nil)
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		st := svc.Browse(ctx, "CS2005", "3")

		assert.Equal(t, StatusOK, st.Status)
		assert.NotNil(t, st.Groups.Notes)
		assert.NotNil(t, st.Groups.Papers)
		assert.NotNil(t, st.Groups.Slides)
	})

	t.Run("semester is passed through unnormalized", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("Find", ctx, repository.ResourceFilter{Subject: "CS2005", Semester: "04"}).
			Return([]model.Resource{}, nil).Once()
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		st := svc.Browse(ctx, "CS2005", "04")

		assert.Equal(t, StatusOK, st.Status)
		assert.Equal(t, "04", st.Semester)
		assert.Empty(t, st.Groups.Notes)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing scope", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		st := svc.Browse(ctx, "", "3")

		assert.Equal(t, StatusError, st.Status)
		assert.ErrorIs(t, st.Err, ErrMissingScope)
		mRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("Find", ctx, mock.Anything).Return(nil, errors.New("timeout"))
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		st := svc.Browse(ctx, "CS2005", "3")

		assert.Equal(t, StatusError, st.Status)
		assert.Equal(t, ErrQueryFailed.Error(), st.Error)
		assert.Empty(t, st.Groups.Notes)
	})
}

func TestCatalogService_GetAndOpenFile(t *testing.T) {
	ctx := context.Background()

	t.Run("empty id", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockResourceRepository), nil, 0, zerolog.Nop())
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mRepo.On("FindByID", ctx, "x").Return(nil, repository.ErrNotFound)
		svc := NewCatalogService(mRepo, nil, 0, zerolog.Nop())

		_, _, _, err := svc.OpenFile(ctx, "x")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("streams the stored object", func(t *testing.T) {
		mRepo := new(repoMocks.MockResourceRepository)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("FindByID", ctx, "1").Return(&model.Resource{ID: "1", FileName: "os.pdf"}, nil)
		mStore.On("Get", ctx, "uploads/os.pdf").
			Return(io.NopCloser(strings.NewReader("%PDF")), storage.ObjectInfo{Key: "uploads/os.pdf", Size: 4}, nil)
		svc := NewCatalogService(mRepo, mStore, 0, zerolog.Nop())

		rc, info, r, err := svc.OpenFile(ctx, "1")
		require.NoError(t, err)
		defer rc.Close()

		b, _ := io.ReadAll(rc)
		assert.Equal(t, "%PDF", string(b))
		assert.Equal(t, int64(4), info.Size)
		assert.Equal(t, "os.pdf", r.FileName)
	})
}
