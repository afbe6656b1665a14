package repository

import (
	"context"
	"errors"

	"studyhub/internal/model"
)

// ErrNotFound is returned when a lookup by ID matches no record.
var ErrNotFound = errors.New("record not found")

// Searchable columns for ResourceFilter.Fields.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldSubject     = "subject"
	FieldType        = "type"
)

// ResourceFilter selects catalog records. Zero-valued fields do not filter.
type ResourceFilter struct {
	// Subject matches case-insensitively and exactly (no substring).
	Subject string
	// Semester matches exactly; "4" does not match "04".
	Semester string
	// Query is a literal substring matched case-insensitively against any of Fields.
	Query  string
	Fields []string
	// Limit caps the number of rows; 0 means unlimited.
	Limit int
}

// ResourceRepository defines data access for catalog records. No business
// logic here; results are always ordered newest first.
type ResourceRepository interface {
	// Create inserts a record. ID and CreatedAt are assigned by the database
	// and returned on the stored copy.
	Create(ctx context.Context, r *model.Resource) (*model.Resource, error)

	// FindByID returns a record by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Resource, error)

	// Find returns records matching the filter.
	Find(ctx context.Context, f ResourceFilter) ([]model.Resource, error)
}
