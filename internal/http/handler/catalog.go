package handler

import (
	"errors"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	"studyhub/internal/service"
)

// ListSemesters returns the browse directory.
//
// @Summary  Semester directory
// @Tags     catalog
// @Produce  json
// @Success  200 {array} model.Semester
// @Router   /api/semesters [get]
func ListSemesters() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(model.Semesters)
	}
}

type subjectView struct {
	model.Subject
	Uploadable bool `json:"uploadable"`
}

// GetSubject resolves a subject code to its display name.
//
// @Summary  Subject by code
// @Tags     catalog
// @Produce  json
// @Param    code path string true "Subject code"
// @Success  200 {object} subjectView
// @Failure  404 {object} errorPayload
// @Router   /api/subjects/{code} [get]
func GetSubject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := model.LookupSubject(c.Params("code"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "subject not found")
		}
		return c.JSON(subjectView{Subject: s, Uploadable: model.IsUploadSubject(s.Code)})
	}
}

// Search runs a global free-text search.
//
// @Summary  Global search
// @Tags     catalog
// @Produce  json
// @Param    q query string false "Search text"
// @Success  200 {object} service.SearchState
// @Failure  503 {object} errorPayload
// @Router   /api/search [get]
func Search(svc service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeSearchState(c, svc.Search(c.UserContext(), c.Query("q")))
	}
}

// ScopedSearch searches within one subject and semester.
//
// @Summary  Search within a subject
// @Tags     catalog
// @Produce  json
// @Param    subject  path  string true  "Subject code"
// @Param    semester query string true  "Semester"
// @Param    q        query string false "Search text"
// @Success  200 {object} service.SearchState
// @Failure  400 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/subject/{subject}/search [get]
func ScopedSearch(svc service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := svc.ScopedSearch(c.UserContext(), c.Params("subject"), c.Query("semester"), c.Query("q"))
		return writeSearchState(c, st)
	}
}

func writeSearchState(c *fiber.Ctx, st service.SearchState) error {
	if st.Status == service.StatusError {
		return writeQueryError(c, st.Err, st.Error)
	}
	return c.JSON(st)
}

func writeQueryError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrMissingScope) {
		return writeError(c, fiber.StatusBadRequest, "MISSING_SCOPE", message)
	}
	return writeError(c, fiber.StatusServiceUnavailable, "QUERY_FAILED", message)
}

// Browse lists a subject's resources for a semester grouped by type.
//
// @Summary  Browse a subject
// @Tags     catalog
// @Produce  json
// @Param    subject  path  string true "Subject code"
// @Param    semester query string true "Semester"
// @Success  200 {object} service.BrowseState
// @Failure  400 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/subject/{subject} [get]
func Browse(svc service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := svc.Browse(c.UserContext(), c.Params("subject"), c.Query("semester"))
		if st.Status == service.StatusError {
			return writeQueryError(c, st.Err, st.Error)
		}
		return c.JSON(st)
	}
}

type resourceView struct {
	model.Resource
	Extension   string `json:"extension"`
	TypeLabel   string `json:"type_label"`
	SubjectName string `json:"subject_name"`
	ViewerURL   string `json:"viewer_url"`
}

// GetResource returns one resource with its display fields. The viewer URL
// depends on the caller's User-Agent.
//
// @Summary  Resource by id
// @Tags     catalog
// @Produce  json
// @Param    id path string true "Resource id (uuid)"
// @Success  200 {object} resourceView
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/resources/{id} [get]
func GetResource(svc service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		r, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(resourceView{
			Resource:    *r,
			Extension:   r.Extension(),
			TypeLabel:   r.Type.Label(),
			SubjectName: model.SubjectName(r.Subject),
			ViewerURL:   r.ViewerURL(c.Get(fiber.HeaderUserAgent)),
		})
	}
}

// DownloadFile streams the stored binary of a resource.
//
// @Summary  Download a resource file
// @Tags     catalog
// @Produce  octet-stream
// @Param    id path string true "Resource id (uuid)"
// @Success  200 {file} file
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/resources/{id}/file [get]
func DownloadFile(svc service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, r, err := svc.OpenFile(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		ct := info.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": r.FileName}))
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, strconv.Quote(info.ETag))
		}

		// The body stream is closed by fasthttp once sent.
		if info.Size >= 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}
