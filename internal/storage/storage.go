// Package storage contains the object store holding uploaded binaries
// (S3-compatible). Implementations stream; they never stage files on local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store consumed by the upload workflow and the file
// download endpoint.
type Storage interface {
	// Put writes an object under key. Writing an existing key follows the
	// backend's semantics (S3 overwrites).
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// PublicURL resolves the address under which key is publicly readable.
	PublicURL(ctx context.Context, key string) (string, error)
}

// ObjectKey derives the deterministic object key of an uploaded file from
// its original name. Same name, same key: re-uploading replaces the object.
func ObjectKey(fileName string) string {
	return PublicPrefix + fileName
}
