// Package store persists uploaded resume originals in object storage and
// hands back publicly resolvable URLs.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore stores raw resume documents and returns a publicly resolvable
// URL for each stored object. Upload failures surface as storage errors,
// distinct from extraction or validation failures.
type ObjectStore interface {
	UploadResume(ctx context.Context, objectName string, data []byte) (string, error)
	Healthy(ctx context.Context) error
}

// NewObjectName generates a unique object name preserving the original
// file's extension
func NewObjectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.New().String() + ext
}

// contentTypeForExt maps a file extension to the content type recorded on
// the stored object
func contentTypeForExt(objectName string) string {
	switch strings.ToLower(filepath.Ext(objectName)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
