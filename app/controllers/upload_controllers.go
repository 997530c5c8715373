package controllers

import (
	"errors"
	"net/http"
	"time"

	"chungtay/pkg/response"
	"chungtay/pkg/storage"
	"chungtay/pkg/upload"
)

// multipartMemory caps the in-memory portion of a multipart parse; the rest
// spills to temp files.
const multipartMemory = 8 << 20 // 8 MB

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Images handles POST /api/uploads. It accepts up to 10 image files under the
// "images" field and returns their public URLs in request order.
func (c *UploadController) Images(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := caller(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		response.Error(w, http.StatusBadRequest, "no images provided")
		return
	}

	if err := upload.Validate(files); err != nil {
		switch {
		case errors.Is(err, upload.ErrTooMany),
			errors.Is(err, upload.ErrTooLarge),
			errors.Is(err, upload.ErrBadFormat):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			response.ServerError(w, err)
		}
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			response.ServerError(w, err)
			return
		}

		name := upload.StorageName(fh.Filename, time.Now())
		err = storage.PutStream(name, src)
		src.Close()
		if err != nil {
			response.ServerError(w, err)
			return
		}
		urls = append(urls, storage.URL(name))
	}

	response.Created(w, map[string]interface{}{"urls": urls})
}
