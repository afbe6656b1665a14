package service

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	"studyhub/internal/storage"
)

// UploadFile is one selected file. Open is called once, right before the
// file's turn in the batch.
type UploadFile struct {
	Name        string
	Size        int64 // -1 when unknown
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// UploadBatch is a multi-file submission sharing one set of metadata.
type UploadBatch struct {
	Files       []UploadFile       `form:"files" validate:"min=1"`
	Description string             `form:"description"`
	Subject     string             `form:"subject" validate:"notblank,subject_code"`
	Semester    string             `form:"semester" validate:"notblank"`
	Type        model.ResourceType `form:"type" validate:"notblank,resource_type"`
}

// ValidateBatch checks the batch preconditions. Nothing is uploaded when
// it fails.
func ValidateBatch(b UploadBatch) error {
	return validateStruct(b)
}

// Progress is the UI feedback of a running batch. Percent reserves the last
// 10% for batch completion and reaches 100 only after every file was tried.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// ProgressFunc receives progress updates; it may be nil.
type ProgressFunc func(Progress)

// FailureStage tells which store call failed for a file.
type FailureStage string

const (
	StageStorage  FailureStage = "storage"
	StageDatabase FailureStage = "database"
)

// FileFailure records why one file of a batch was not cataloged.
type FileFailure struct {
	FileName string       `json:"file_name"`
	Stage    FailureStage `json:"stage"`
	Reason   string       `json:"reason"`
}

func (f FileFailure) String() string {
	stage := "Storage"
	if f.Stage == StageDatabase {
		stage = "Database"
	}
	return fmt.Sprintf("%s (%s error: %s)", f.FileName, stage, f.Reason)
}

// BatchResult summarizes a finished batch. Succeeded+Failed == Total.
type BatchResult struct {
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Failures  []FileFailure      `json:"failures"`
	Resources []model.Resource   `json:"resources"`
	Subject   string             `json:"subject"`
	Semester  string             `json:"semester"`
	Type      model.ResourceType `json:"type"`
	// BrowseURL links to the subject page showing the new files; set only
	// when at least one file succeeded.
	BrowseURL string `json:"browse_url,omitempty"`
}

// Authorizer decides whether the caller in ctx may upload.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// Uploader runs batch uploads.
type Uploader interface {
	Upload(ctx context.Context, b UploadBatch, onProgress ProgressFunc) (*BatchResult, error)
}

// UploadService copies each file of a batch to object storage and catalogs
// it, one file at a time.
type UploadService struct {
	store   storage.Storage
	repo    repository.ResourceRepository
	gate    Authorizer
	metrics *UploadMetrics
	log     zerolog.Logger
}

// NewUploadService constructs an UploadService. gate and metrics may be nil.
func NewUploadService(store storage.Storage, repo repository.ResourceRepository, gate Authorizer, metrics *UploadMetrics, log zerolog.Logger) *UploadService {
	return &UploadService{
		store:   store,
		repo:    repo,
		gate:    gate,
		metrics: metrics,
		log:     log.With().Str("component", "upload").Logger(),
	}
}

var _ Uploader = (*UploadService)(nil)

// Upload authorizes the caller, validates the batch, then processes files
// strictly in order. A failing file never stops the batch; only
// authorization and validation errors are returned, before any store call.
func (s *UploadService) Upload(ctx context.Context, b UploadBatch, onProgress ProgressFunc) (*BatchResult, error) {
	if s.gate != nil {
		if err := s.gate.Authorize(ctx); err != nil {
			return nil, err
		}
	}
	if err := ValidateBatch(b); err != nil {
		return nil, err
	}

	emit := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	total := len(b.Files)
	res := &BatchResult{
		Total:     total,
		Failures:  []FileFailure{},
		Resources: []model.Resource{},
		Subject:   b.Subject,
		Semester:  b.Semester,
		Type:      b.Type,
	}

	for i, f := range b.Files {
		emit(Progress{Current: i + 1, Total: total, Percent: percentOf(i, total)})

		stored, failure := s.uploadOne(ctx, b, f)
		if failure != nil {
			res.Failed++
			res.Failures = append(res.Failures, *failure)
			s.metrics.observe(string(failure.Stage) + "_error")
			s.log.Warn().
				Str("file", f.Name).
				Str("stage", string(failure.Stage)).
				Str("reason", failure.Reason).
				Int("index", i+1).
				Int("total", total).
				Msg("file upload failed")
		} else {
			res.Succeeded++
			res.Resources = append(res.Resources, *stored)
			s.metrics.observe("success")
			s.log.Debug().Str("file", f.Name).Str("id", stored.ID).Int("index", i+1).Int("total", total).Msg("file uploaded")
		}

		emit(Progress{Current: i + 1, Total: total, Percent: percentOf(i+1, total)})
	}

	emit(Progress{Current: total, Total: total, Percent: 100})

	if res.Succeeded > 0 {
		res.BrowseURL = model.BrowseRoute(b.Subject, b.Semester)
	}

	s.log.Info().
		Str("subject", b.Subject).
		Str("semester", b.Semester).
		Str("type", string(b.Type)).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("upload batch complete")

	return res, nil
}

// percentOf maps done of total files onto 0..90.
func percentOf(done, total int) float64 {
	return float64(done*90) / float64(total)
}

var tracer = otel.Tracer("studyhub/internal/service")

func (s *UploadService) uploadOne(ctx context.Context, b UploadBatch, f UploadFile) (*model.Resource, *FileFailure) {
	ctx, span := tracer.Start(ctx, "upload.file", trace.WithAttributes(
		attribute.String("file.name", f.Name),
		attribute.Int64("file.size", f.Size),
		attribute.String("resource.subject", b.Subject),
	))
	defer span.End()

	fail := func(stage FailureStage, err error) *FileFailure {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage))
		return &FileFailure{FileName: f.Name, Stage: stage, Reason: err.Error()}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fail(StageStorage, fmt.Errorf("open: %w", err))
	}
	defer rc.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.ObjectKey(f.Name)
	if _, err := s.store.Put(ctx, key, rc, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": f.Name},
	}); err != nil {
		return nil, fail(StageStorage, err)
	}

	url, err := s.store.PublicURL(ctx, key)
	if err != nil {
		return nil, fail(StageStorage, err)
	}

	// The object stays in storage if this insert fails.
	stored, err := s.repo.Create(ctx, &model.Resource{
		Title:       f.Name,
		Description: b.Description,
		Subject:     b.Subject,
		Semester:    b.Semester,
		Type:        b.Type,
		FileName:    f.Name,
		URL:         url,
	})
	if err != nil {
		return nil, fail(StageDatabase, err)
	}
	return stored, nil
}

// UploadMetrics counts per-file upload outcomes.
type UploadMetrics struct {
	files *prometheus.CounterVec
}

// NewUploadMetrics registers the upload counters on reg.
func NewUploadMetrics(reg prometheus.Registerer) (*UploadMetrics, error) {
	m := &UploadMetrics{
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyhub_upload_files_total",
				Help: "Files processed by the upload workflow, by outcome.",
			},
			[]string{"outcome"},
		),
	}
	if err := reg.Register(m.files); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *UploadMetrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(outcome).Inc()
}
