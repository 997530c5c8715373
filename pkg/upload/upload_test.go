package upload_test

import (
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"chungtay/pkg/upload"
)

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateAccepts(t *testing.T) {
	files := []*multipart.FileHeader{
		header("photo.jpg", 1024),
		header("Photo.PNG", upload.MaxFileSize),
		header("banner.webp", 2048),
	}
	if err := upload.Validate(files); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateTooMany(t *testing.T) {
	files := make([]*multipart.FileHeader, upload.MaxFiles+1)
	for i := range files {
		files[i] = header("a.jpg", 100)
	}
	if err := upload.Validate(files); !errors.Is(err, upload.ErrTooMany) {
		t.Errorf("err = %v", err)
	}
}

func TestValidateTooLarge(t *testing.T) {
	files := []*multipart.FileHeader{header("big.png", upload.MaxFileSize+1)}
	if err := upload.Validate(files); !errors.Is(err, upload.ErrTooLarge) {
		t.Errorf("err = %v", err)
	}
}

func TestValidateBadFormat(t *testing.T) {
	for _, name := range []string{"script.exe", "archive.zip", "noext", "movie.mp4"} {
		files := []*multipart.FileHeader{header(name, 100)}
		if err := upload.Validate(files); !errors.Is(err, upload.ErrBadFormat) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestStorageNameShape(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	name := upload.StorageName("My Photo.JPG", now)

	if !strings.HasPrefix(name, "uploads/2026/03/") {
		t.Errorf("prefix: %q", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("extension not lowercased: %q", name)
	}
}

func TestStorageNameUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := upload.StorageName("a.png", now)
		if seen[name] {
			t.Fatalf("duplicate name: %q", name)
		}
		seen[name] = true
	}
}
