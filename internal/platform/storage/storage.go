package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const uploadPrefix = "uploads/"

// Object is a stored blob. URL may be relative to the serving host.
type Object struct {
	Key string
	URL string
}

// Backend persists uploaded bytes under a server-chosen key.
// Delete of a missing key is not an error.
type Backend interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// UploadKey derives a collision-free key from the client's file name, keeping its extension.
func UploadKey(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	if len(stem) > 80 {
		stem = stem[:80]
	}
	return uploadPrefix + uuid.NewString() + "-" + stem + ext
}
