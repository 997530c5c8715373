// Package upload enforces the image-upload rules and generates collision-free
// storage names for concurrent writers.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFiles is the maximum number of files accepted per request.
	MaxFiles = 10

	// MaxFileSize is the per-file size cap.
	MaxFileSize = 5 << 20 // 5 MB
)

var allowedExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var (
	ErrTooMany   = errors.New("upload: too many files (max 10)")
	ErrTooLarge  = errors.New("upload: file exceeds 5 MB")
	ErrBadFormat = errors.New("upload: only jpg, jpeg, png, webp images are allowed")
)

// Validate checks a batch of multipart file headers against the upload rules.
func Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooMany
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return fmt.Errorf("%w: %s", ErrTooLarge, fh.Filename)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedExts[ext]; !ok {
			return fmt.Errorf("%w: %s", ErrBadFormat, fh.Filename)
		}
	}
	return nil
}

// StorageName builds a unique object path for an uploaded file. The
// timestamp+random suffix keeps concurrent uploads from colliding on the
// shared filesystem area.
func StorageName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("uploads/%04d/%02d/%d-%s%s",
		now.Year(), now.Month(), now.UnixNano(), hex.EncodeToString(suffix), ext)
}
