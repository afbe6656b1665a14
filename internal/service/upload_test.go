package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyhub/internal/model"
	repoMocks "studyhub/internal/repository/mocks"
	"studyhub/internal/session"
	"studyhub/internal/storage"
	storeMocks "studyhub/internal/storage/mocks"
)

const adminEmail = "admin@studyhub.test"

func adminCtx() context.Context {
	return session.WithIdentity(context.Background(), session.Identity{Subject: "u1", Email: adminEmail})
}

func newGate() *session.Gate {
	return session.NewGate(session.ContextProvider{}, adminEmail)
}

func textFile(name, body string) UploadFile {
	return UploadFile{
		Name:        name,
		Size:        int64(len(body)),
		ContentType: "application/pdf",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func validBatch(files ...UploadFile) UploadBatch {
	return UploadBatch{
		Files:       files,
		Description: "week 1",
		Subject:     "CS2005",
		Semester:    "3",
		Type:        model.TypeNotes,
	}
}

func expectStored(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockResourceRepository, name string) {
	key := storage.ObjectKey(name)
	mStore.On("Put", mock.Anything, key, mock.Anything, storage.PutObjectOptions{
		Size:        5,
		ContentType: "application/pdf",
		Metadata:    map[string]string{"original-filename": name},
	}).Return(storage.ObjectInfo{Key: key}, nil).Once()
	mStore.On("PublicURL", mock.Anything, key).Return("https://cdn.test/materials/"+key, nil).Once()
	mRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Resource) bool {
		return r.FileName == name
	})).Return(&model.Resource{ID: "id-" + name, FileName: name}, nil).Once()
}

func TestUploadService_Upload_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		batch      UploadBatch
		wantErr    error
		wantFields []string
	}{
		{
			name:    "anonymous caller",
			ctx:     context.Background(),
			batch:   validBatch(textFile("a.pdf", "hello")),
			wantErr: session.ErrUnauthenticated,
		},
		{
			name: "another account",
			ctx: session.WithIdentity(context.Background(),
				session.Identity{Email: "student@studyhub.test"}),
			batch:   validBatch(textFile("a.pdf", "hello")),
			wantErr: session.ErrUploadDenied,
		},
		{
			name:       "no files",
			ctx:        adminCtx(),
			batch:      validBatch(),
			wantFields: []string{"files"},
		},
		{
			name: "unknown subject and blank semester",
			ctx:  adminCtx(),
			batch: UploadBatch{
				Files:    []UploadFile{textFile("a.pdf", "hello")},
				Subject:  "cs2005",
				Semester: "  ",
				Type:     model.TypeNotes,
			},
			wantFields: []string{"semester", "subject"},
		},
		{
			name: "invalid type",
			ctx:  adminCtx(),
			batch: UploadBatch{
				Files:    []UploadFile{textFile("a.pdf", "hello")},
				Subject:  "CS2005",
				Semester: "3",
				Type:     "videos",
			},
			wantFields: []string{"type"},
		},
		{
			name:       "everything missing",
			ctx:        adminCtx(),
			batch:      UploadBatch{},
			wantFields: []string{"files", "semester", "subject", "type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockResourceRepository)
			svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())

			var updates int
			res, err := svc.Upload(tt.ctx, tt.batch, func(Progress) { updates++ })

			require.Error(t, err)
			assert.Nil(t, res)
			assert.Zero(t, updates)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				got := make([]string, 0, len(ve.Fields))
				for k := range ve.Fields {
					got = append(got, k)
				}
				assert.ElementsMatch(t, tt.wantFields, got)
			}

			mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadService_Upload_AllSucceed(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	expectStored(mStore, mRepo, "a.pdf")
	expectStored(mStore, mRepo, "b.pdf")

	svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())
	res, err := svc.Upload(ctx, validBatch(textFile("a.pdf", "hello"), textFile("b.pdf", "world")), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, res.Failures)
	require.Len(t, res.Resources, 2)
	assert.Equal(t, "id-a.pdf", res.Resources[0].ID)
	assert.Equal(t, "id-b.pdf", res.Resources[1].ID)
	assert.Equal(t, "/subject/cs2005?semester=3", res.BrowseURL)

	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestUploadService_Upload_PartialFailure(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	expectStored(mStore, mRepo, "a.pdf")

	mStore.On("Put", mock.Anything, "uploads/b.pdf", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("bucket offline")).Once()

	mStore.On("Put", mock.Anything, "uploads/c.pdf", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "uploads/c.pdf"}, nil).Once()
	mStore.On("PublicURL", mock.Anything, "uploads/c.pdf").Return("https://cdn.test/materials/uploads/c.pdf", nil).Once()
	mRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Resource) bool {
		return r.FileName == "c.pdf"
	})).Return(nil, errors.New("unique violation")).Once()

	var progress []Progress
	svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())
	res, err := svc.Upload(ctx,
		validBatch(textFile("a.pdf", "hello"), textFile("b.pdf", "hello"), textFile("c.pdf", "hello")),
		func(p Progress) { progress = append(progress, p) })

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, res.Total, res.Succeeded+res.Failed)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "b.pdf (Storage error: bucket offline)", res.Failures[0].String())
	assert.Equal(t, "c.pdf (Database error: unique violation)", res.Failures[1].String())
	assert.Equal(t, "/subject/cs2005?semester=3", res.BrowseURL)

	assert.Equal(t, []Progress{
		{Current: 1, Total: 3, Percent: 0},
		{Current: 1, Total: 3, Percent: 30},
		{Current: 2, Total: 3, Percent: 30},
		{Current: 2, Total: 3, Percent: 60},
		{Current: 3, Total: 3, Percent: 60},
		{Current: 3, Total: 3, Percent: 90},
		{Current: 3, Total: 3, Percent: 100},
	}, progress)

	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestUploadService_Upload_ProgressMonotonic(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	var files []UploadFile
	for _, name := range []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf", "7.pdf"} {
		files = append(files, textFile(name, "hello"))
	}
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("down"))

	var progress []Progress
	svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())
	res, err := svc.Upload(ctx, validBatch(files...), func(p Progress) { progress = append(progress, p) })

	require.NoError(t, err)
	assert.Equal(t, 7, res.Failed)
	assert.Empty(t, res.BrowseURL)

	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i].Percent, progress[i-1].Percent)
		assert.GreaterOrEqual(t, progress[i].Current, progress[i-1].Current)
	}
	for _, p := range progress[:len(progress)-1] {
		assert.LessOrEqual(t, p.Percent, 90.0)
	}
	assert.Equal(t, 100.0, progress[len(progress)-1].Percent)
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_OpenAndURLFailures(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	broken := UploadFile{
		Name: "broken.pdf",
		Size: -1,
		Open: func() (io.ReadCloser, error) { return nil, errors.New("permission denied") },
	}

	mStore.On("Put", mock.Anything, "uploads/nourl.pdf", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "uploads/nourl.pdf"}, nil).Once()
	mStore.On("PublicURL", mock.Anything, "uploads/nourl.pdf").Return("", errors.New("no base url")).Once()

	svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())
	res, err := svc.Upload(ctx, validBatch(broken, textFile("nourl.pdf", "hello")), nil)

	require.NoError(t, err)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "broken.pdf (Storage error: open: permission denied)", res.Failures[0].String())
	assert.Equal(t, StageStorage, res.Failures[1].Stage)
	assert.Equal(t, "no base url", res.Failures[1].Reason)
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_DefaultContentType(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	f := textFile("notes", "hello")
	f.ContentType = ""

	mStore.On("Put", mock.Anything, "uploads/notes", mock.Anything, storage.PutObjectOptions{
		Size:        5,
		ContentType: "application/octet-stream",
		Metadata:    map[string]string{"original-filename": "notes"},
	}).Return(storage.ObjectInfo{Key: "uploads/notes"}, nil).Once()
	mStore.On("PublicURL", mock.Anything, "uploads/notes").Return("https://cdn.test/materials/uploads/notes", nil).Once()
	mRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Resource) bool {
		return r.Title == "notes" && r.Description == "week 1" && r.Subject == "CS2005" &&
			r.Semester == "3" && r.Type == model.TypeNotes &&
			r.URL == "https://cdn.test/materials/uploads/notes"
	})).Return(&model.Resource{ID: "1"}, nil).Once()

	svc := NewUploadService(mStore, mRepo, newGate(), nil, zerolog.Nop())
	res, err := svc.Upload(ctx, validBatch(f), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestUploadMetrics(t *testing.T) {
	ctx := adminCtx()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockResourceRepository)

	expectStored(mStore, mRepo, "a.pdf")
	mStore.On("Put", mock.Anything, "uploads/b.pdf", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("down")).Once()

	reg := prometheus.NewRegistry()
	metrics, err := NewUploadMetrics(reg)
	require.NoError(t, err)

	svc := NewUploadService(mStore, mRepo, newGate(), metrics, zerolog.Nop())
	_, err = svc.Upload(ctx, validBatch(textFile("a.pdf", "hello"), textFile("b.pdf", "hello")), nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.files.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.files.WithLabelValues("storage_error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.files.WithLabelValues("database_error")))

	_, err = NewUploadMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"type":    "type must be one of notes, papers, slides",
		"subject": "subject is required",
	}}
	assert.Equal(t, "validation failed: subject is required; type must be one of notes, papers, slides", err.Error())
}

func TestValidateBatch_Messages(t *testing.T) {
	err := ValidateBatch(UploadBatch{
		Files:    []UploadFile{textFile("a.pdf", "x")},
		Subject:  "XX0000",
		Semester: "1",
		Type:     "videos",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "subject must be a recognized subject code", ve.Fields["subject"])
	assert.Equal(t, "type must be one of notes, papers, slides", ve.Fields["type"])
}

func TestValidateBatch_AcceptsCompleteBatch(t *testing.T) {
	b := UploadBatch{
		Files:    []UploadFile{textFile("a.pdf", "x")},
		Subject:  "CS2005",
		Semester: "4",
		Type:     model.TypeNotes,
	}
	var err error
	require.NotPanics(t, func() { err = ValidateBatch(b) })
	assert.NoError(t, err)
}

func TestValidateBatch_BlankValues(t *testing.T) {
	err := ValidateBatch(UploadBatch{
		Files:    []UploadFile{textFile("a.pdf", "x")},
		Subject:  " ",
		Semester: "\t",
		Type:     "",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		"subject":  "subject is required",
		"semester": "semester is required",
		"type":     "type is required",
	}, ve.Fields)
}
