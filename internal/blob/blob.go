// Package blob stores uploaded images behind a small driver interface with
// a local filesystem backend and an S3-compatible backend.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that are not storage IDs issued by NewKey.
var ErrInvalidKey = errors.New("invalid storage id")

// Object is a stored blob read back in full. Uploads are capped in size, so
// holding them in memory is fine.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// ETag returns the quoted SHA-256 of the object's bytes.
func (o *Object) ETag() string {
	sum := sha256.Sum256(o.Data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// Store is implemented by every blob backend.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (*Object, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Name() string
}

// NewKey returns a fresh storage ID.
func NewKey() string {
	return uuid.NewString()
}

// ValidKey reports whether key has the storage ID shape. It keeps path
// separators and dot segments out of the filesystem backend.
func ValidKey(key string) bool {
	_, err := uuid.Parse(key)
	return err == nil && len(key) == 36
}

// URL joins the public base URL and a storage ID.
func URL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// DetectContentType sniffs the MIME type of stored bytes.
func DetectContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
