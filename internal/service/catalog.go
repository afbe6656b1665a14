package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	"studyhub/internal/storage"
)

// DefaultSearchLimit caps free-text search results.
const DefaultSearchLimit = 10

var (
	ErrMissingScope = errors.New("missing subject or semester")
	ErrQueryFailed  = errors.New("unable to load resources, please try again later")
	ErrIDRequired   = errors.New("id is required")
)

// QueryStatus distinguishes "never searched" from "searched" and "failed".
type QueryStatus string

const (
	StatusIdle  QueryStatus = "idle"
	StatusOK    QueryStatus = "ok"
	StatusError QueryStatus = "error"
)

// SearchState is the outcome of a free-text search. Results is empty (never
// nil) unless Status is StatusOK.
type SearchState struct {
	Status  QueryStatus      `json:"status"`
	Loading bool             `json:"loading"`
	Query   string           `json:"query"`
	Results []model.Resource `json:"results"`
	Error   string           `json:"error,omitempty"`
	Err     error            `json:"-"`
}

// Searched reports whether a query was actually run.
func (s SearchState) Searched() bool {
	return s.Status != StatusIdle
}

// Groups holds browse results split by resource type.
type Groups struct {
	Notes  []model.Resource `json:"notes"`
	Papers []model.Resource `json:"papers"`
	Slides []model.Resource `json:"slides"`
}

// GroupByType splits rs by type, keeping order. Records of any other type
// are dropped.
func GroupByType(rs []model.Resource) Groups {
	g := Groups{
		Notes:  []model.Resource{},
		Papers: []model.Resource{},
		Slides: []model.Resource{},
	}
	for _, r := range rs {
		switch r.Type {
		case model.TypeNotes:
			g.Notes = append(g.Notes, r)
		case model.TypePapers:
			g.Papers = append(g.Papers, r)
		case model.TypeSlides:
			g.Slides = append(g.Slides, r)
		}
	}
	return g
}

// BrowseState is the outcome of a subject/semester browse.
type BrowseState struct {
	Status      QueryStatus `json:"status"`
	Subject     string      `json:"subject"`
	SubjectName string      `json:"subject_name"`
	Semester    string      `json:"semester"`
	Groups      Groups      `json:"groups"`
	Error       string      `json:"error,omitempty"`
	Err         error       `json:"-"`
}

// Catalog is the read side of the catalog.
type Catalog interface {
	Search(ctx context.Context, query string) SearchState
	ScopedSearch(ctx context.Context, subject, semester, query string) SearchState
	Browse(ctx context.Context, subject, semester string) BrowseState
	Get(ctx context.Context, id string) (*model.Resource, error)
	OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Resource, error)
}

// CatalogService answers search and browse queries. Search and browse
// failures are folded into the returned state; they never surface as errors.
type CatalogService struct {
	repo  repository.ResourceRepository
	store storage.Storage
	limit int
	log   zerolog.Logger
}

// NewCatalogService constructs a CatalogService. A non-positive limit
// selects DefaultSearchLimit.
func NewCatalogService(repo repository.ResourceRepository, store storage.Storage, limit int, log zerolog.Logger) *CatalogService {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &CatalogService{
		repo:  repo,
		store: store,
		limit: limit,
		log:   log.With().Str("component", "catalog").Logger(),
	}
}

var _ Catalog = (*CatalogService)(nil)

var (
	globalSearchFields = []string{
		repository.FieldTitle,
		repository.FieldDescription,
		repository.FieldSubject,
		repository.FieldType,
	}
	scopedSearchFields = []string{
		repository.FieldTitle,
		repository.FieldDescription,
		repository.FieldType,
	}
)

// Search matches query against title, description, subject and type,
// newest first. A blank query is not sent to the store and yields
// StatusIdle.
func (s *CatalogService) Search(ctx context.Context, query string) SearchState {
	q := strings.TrimSpace(query)
	if q == "" {
		return idleState(query)
	}
	return s.search(ctx, q, repository.ResourceFilter{
		Query:  q,
		Fields: globalSearchFields,
		Limit:  s.limit,
	})
}

// ScopedSearch is Search restricted to one subject and semester, matching
// title, description and type.
func (s *CatalogService) ScopedSearch(ctx context.Context, subject, semester, query string) SearchState {
	subject, semester = strings.TrimSpace(subject), strings.TrimSpace(semester)
	if subject == "" || semester == "" {
		return SearchState{
			Status:  StatusError,
			Query:   query,
			Results: []model.Resource{},
			Error:   ErrMissingScope.Error(),
			Err:     ErrMissingScope,
		}
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return idleState(query)
	}
	return s.search(ctx, q, repository.ResourceFilter{
		Subject:  subject,
		Semester: semester,
		Query:    q,
		Fields:   scopedSearchFields,
		Limit:    s.limit,
	})
}

func idleState(query string) SearchState {
	return SearchState{Status: StatusIdle, Query: query, Results: []model.Resource{}}
}

func (s *CatalogService) search(ctx context.Context, q string, f repository.ResourceFilter) SearchState {
	items, err := s.repo.Find(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Str("query", q).Str("subject", f.Subject).Str("semester", f.Semester).Msg("search failed")
		return SearchState{
			Status:  StatusError,
			Query:   q,
			Results: []model.Resource{},
			Error:   ErrQueryFailed.Error(),
			Err:     err,
		}
	}
	return SearchState{Status: StatusOK, Query: q, Results: items}
}

// Browse lists a subject's resources for one semester grouped by type.
// Subject matches case-insensitively, semester exactly.
func (s *CatalogService) Browse(ctx context.Context, subject, semester string) BrowseState {
	subject, semester = strings.TrimSpace(subject), strings.TrimSpace(semester)
	st := BrowseState{
		Subject:     subject,
		SubjectName: model.SubjectName(subject),
		Semester:    semester,
		Groups:      GroupByType(nil),
	}
	if subject == "" || semester == "" {
		st.Status = StatusError
		st.Error = ErrMissingScope.Error()
		st.Err = ErrMissingScope
		return st
	}

	items, err := s.repo.Find(ctx, repository.ResourceFilter{Subject: subject, Semester: semester})
	if err != nil {
		s.log.Error().Err(err).Str("subject", subject).Str("semester", semester).Msg("browse failed")
		st.Status = StatusError
		st.Error = ErrQueryFailed.Error()
		st.Err = err
		return st
	}

	st.Status = StatusOK
	st.Groups = GroupByType(items)
	return st
}

// Get returns a single resource or repository.ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

// OpenFile streams the stored binary of a resource. The caller closes the
// reader.
func (s *CatalogService) OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Resource, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	rc, info, err := s.store.Get(ctx, storage.ObjectKey(r.FileName))
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	return rc, info, r, nil
}
