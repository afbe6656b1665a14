package service

import (
	"context"

	"studyhub/internal/model"
)

// UploadForm holds the state of an upload form: the selected files, the
// shared metadata and the progress of the running submission. It is not
// safe for concurrent use.
type UploadForm struct {
	uploader Uploader

	Files       []UploadFile
	Description string
	Subject     string
	Semester    string
	Type        model.ResourceType

	Uploading bool
	Progress  Progress
}

// NewUploadForm creates an empty form submitting through u.
func NewUploadForm(u Uploader) *UploadForm {
	return &UploadForm{uploader: u}
}

// Select replaces the selected files.
func (f *UploadForm) Select(files ...UploadFile) {
	f.Files = append([]UploadFile(nil), files...)
}

// Remove drops the selected file at index. It reports false for an index
// out of range.
func (f *UploadForm) Remove(index int) bool {
	if index < 0 || index >= len(f.Files) {
		return false
	}
	f.Files = append(f.Files[:index:index], f.Files[index+1:]...)
	return true
}

// Batch returns the submission the form currently describes.
func (f *UploadForm) Batch() UploadBatch {
	return UploadBatch{
		Files:       f.Files,
		Description: f.Description,
		Subject:     f.Subject,
		Semester:    f.Semester,
		Type:        f.Type,
	}
}

// Submit uploads the form's batch. onProgress, if set, sees every update
// after the form has recorded it. A rejected submission leaves the form as
// it was; a processed batch clears the files and the description while
// subject, semester and type stay for the next batch.
func (f *UploadForm) Submit(ctx context.Context, onProgress ProgressFunc) (*BatchResult, error) {
	f.Uploading = true
	f.Progress = Progress{}
	defer func() {
		f.Uploading = false
		f.Progress = Progress{}
	}()

	res, err := f.uploader.Upload(ctx, f.Batch(), func(p Progress) {
		f.Progress = p
		if onProgress != nil {
			onProgress(p)
		}
	})
	if err != nil {
		return nil, err
	}

	f.Files = nil
	f.Description = ""
	return res, nil
}

// ResetAll clears every field, including subject, semester and type.
func (f *UploadForm) ResetAll() {
	f.Files = nil
	f.Description = ""
	f.Subject = ""
	f.Semester = ""
	f.Type = ""
	f.Progress = Progress{}
	f.Uploading = false
}
