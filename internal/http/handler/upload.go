package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/internal/session"
)

// UploadBatch accepts a multipart batch: any number of "files" parts plus
// the shared description, subject, semester and type values. The response
// is 200 with the batch summary even when some files failed.
//
// @Summary  Upload study materials
// @Tags     uploads
// @Accept   multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param    files       formData file   true  "Files to upload"
// @Param    description formData string false "Shared description"
// @Param    subject     formData string true  "Subject code"
// @Param    semester    formData string true  "Semester"
// @Param    type        formData string true  "notes, papers or slides"
// @Success  200 {object} service.BatchResult
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /api/uploads [post]
func UploadBatch(svc service.Uploader, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batch := service.UploadBatch{
			Description: c.FormValue("description"),
			Subject:     c.FormValue("subject"),
			Semester:    c.FormValue("semester"),
			Type:        model.ResourceType(c.FormValue("type")),
		}
		form, err := c.MultipartForm()
		switch {
		case err == nil:
			for _, fh := range form.File["files"] {
				batch.Files = append(batch.Files, uploadFile(fh))
			}
		case errors.Is(err, fasthttp.ErrNoMultipartForm):
			// No file parts; validation reports the missing files.
		default:
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed multipart body")
		}

		res, err := svc.Upload(c.UserContext(), batch, nil)
		if err != nil {
			return writeUploadError(c, err, log)
		}
		return c.JSON(res)
	}
}

func uploadFile(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

func writeUploadError(c *fiber.Ctx, err error, log zerolog.Logger) error {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "sign in required")
	case errors.Is(err, session.ErrUploadDenied):
		return writeError(c, fiber.StatusForbidden, "UPLOAD_FORBIDDEN", "Only admin can upload")
	case errors.As(err, &ve):
		return writeFieldError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "please fill all required fields", ve.Fields)
	default:
		log.Error().Err(err).Str("request_id", requestIDFromCtx(c)).Msg("upload failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
