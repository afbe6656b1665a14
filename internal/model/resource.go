package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ResourceType classifies an uploaded study material.
type ResourceType string

const (
	TypeNotes  ResourceType = "notes"
	TypePapers ResourceType = "papers"
	TypeSlides ResourceType = "slides"
)

// ResourceTypes lists the recognized types in display order.
var ResourceTypes = []ResourceType{TypeNotes, TypePapers, TypeSlides}

// Valid reports whether t is one of the recognized resource types.
// Matching is exact: "Notes" is not a valid type.
func (t ResourceType) Valid() bool {
	switch t {
	case TypeNotes, TypePapers, TypeSlides:
		return true
	}
	return false
}

// Label returns the capitalized display label, e.g. "Notes".
func (t ResourceType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Resource is one uploaded document's catalog entry.
// ID and CreatedAt are assigned by the store on insert.
type Resource struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
	Semester    string       `json:"semester"`
	Type        ResourceType `json:"type"`
	FileName    string       `json:"file_name"`
	URL         string       `json:"url"`
	CreatedAt   time.Time    `json:"created_at"`
}

var (
	ErrInvalidType    = errors.New("invalid resource type")
	ErrInvalidSubject = errors.New("invalid subject code")
	ErrBlankField     = errors.New("required field is blank")
)

// Validate re-checks the upload rules at the store boundary. The upload
// workflow validates the same rules before any store call; this guards
// direct repository writes.
func (r *Resource) Validate() error {
	if strings.TrimSpace(r.Semester) == "" || strings.TrimSpace(r.FileName) == "" || r.URL == "" {
		return ErrBlankField
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if !IsUploadSubject(r.Subject) {
		return fmt.Errorf("%w: %q", ErrInvalidSubject, r.Subject)
	}
	return nil
}

// Extension returns the upper-cased suffix after the last dot of FileName.
// A name without a dot yields the whole name upper-cased.
func (r *Resource) Extension() string {
	name := r.FileName
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}

var mobileUA = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)

const pdfViewerBase = "https://docs.google.com/viewer?url="

// ViewerURL returns the address a client should open to view the file.
// Mobile browsers cannot render PDFs inline, so PDF links are routed
// through an online viewer for them.
func (r *Resource) ViewerURL(userAgent string) string {
	if mobileUA.MatchString(userAgent) && strings.HasSuffix(r.URL, ".pdf") {
		return pdfViewerBase + url.QueryEscape(r.URL)
	}
	return r.URL
}

// BrowseRoute builds the deep link of the subject page for a semester:
// /subject/{lowercased code}?semester={semester}.
func BrowseRoute(subject, semester string) string {
	q := url.Values{}
	q.Set("semester", semester)
	return "/subject/" + strings.ToLower(subject) + "?" + q.Encode()
}
