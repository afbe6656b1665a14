package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// ResourcePostgres is a PostgreSQL implementation of repository.ResourceRepository
// backed by the uploads table.
type ResourcePostgres struct {
	db *sql.DB
}

// NewResourcePostgres creates a new ResourcePostgres repository.
func NewResourcePostgres(db *sql.DB) *ResourcePostgres {
	return &ResourcePostgres{db: db}
}

var _ repository.ResourceRepository = (*ResourcePostgres)(nil)

const resourceColumns = `id, title, description, subject, semester, type, file_name, url, created_at`

// searchColumns whitelists the columns a filter may match against.
var searchColumns = map[string]string{
	repository.FieldTitle:       "title",
	repository.FieldDescription: "description",
	repository.FieldSubject:     "subject",
	repository.FieldType:        "type",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (*model.Resource, error) {
	var r model.Resource
	if err := s.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Subject,
		&r.Semester,
		&r.Type,
		&r.FileName,
		&r.URL,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create validates the record against the upload rules and inserts it.
func (p *ResourcePostgres) Create(ctx context.Context, r *model.Resource) (*model.Resource, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO uploads (title, description, subject, semester, type, file_name, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + resourceColumns
	row := p.db.QueryRowContext(ctx, q,
		r.Title,
		r.Description,
		r.Subject,
		r.Semester,
		string(r.Type),
		r.FileName,
		r.URL,
	)
	return scanResource(row)
}

// FindByID fetches a single record by its ID.
func (p *ResourcePostgres) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	const q = `SELECT ` + resourceColumns + ` FROM uploads WHERE id = $1`
	r, err := scanResource(p.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// Find returns the records matching f, newest first.
func (p *ResourcePostgres) Find(ctx context.Context, f repository.ResourceFilter) ([]model.Resource, error) {
	q, args, err := buildFindQuery(f)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Resource, 0)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func buildFindQuery(f repository.ResourceFilter) (string, []any, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Subject != "" {
		conditions = append(conditions, "lower(subject) = lower("+arg(f.Subject)+")")
	}
	if f.Semester != "" {
		conditions = append(conditions, "semester = "+arg(f.Semester))
	}
	if f.Query != "" {
		if len(f.Fields) == 0 {
			return "", nil, errors.New("query given without fields to match")
		}
		placeholder := arg("%" + escapeLike(f.Query) + "%")
		ors := make([]string, 0, len(f.Fields))
		for _, field := range f.Fields {
			col, ok := searchColumns[field]
			if !ok {
				return "", nil, fmt.Errorf("unsearchable field %q", field)
			}
			ors = append(ors, col+" ILIKE "+placeholder)
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}

	var b strings.Builder
	b.WriteString("SELECT " + resourceColumns + " FROM uploads")
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	return b.String(), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
