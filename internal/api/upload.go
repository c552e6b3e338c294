package api

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"chat-backend/internal/storage"
	"chat-backend/pkg/api"
)

type UploadService struct {
	storage  storage.Provider
	bucket   string
	maxBytes int64
}

// NewUploadService stores uploaded media in bucket. maxBytes <= 0 disables the
// request size limit.
func NewUploadService(storage storage.Provider, bucket string, maxBytes int64) *UploadService {
	return &UploadService{storage: storage, bucket: bucket, maxBytes: maxBytes}
}

func (s *UploadService) AddRoutes(r chi.Router) {
	r.Post("/upload_media", RestHandler(s.UploadMedia))
}

func (s *UploadService) UploadMedia(r *http.Request) (any, error) {
	if s.maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, s.maxBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, CodedErrorf(http.StatusRequestEntityTooLarge, "upload exceeds limit of %d bytes", s.maxBytes)
		}
		return nil, CodedErrorf(http.StatusBadRequest, "missing file in multipart form: %v", err)
	}
	defer file.Close()

	filename := filepath.Base(filepath.Clean("/" + header.Filename))
	if filename == "/" || filename == "." {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid filename %q", header.Filename)
	}

	if err := s.storage.PutObject(r.Context(), s.bucket, filename, file); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "Upload failed: %v", err)
	}

	return api.UploadResponse{Status: "File uploaded", Filename: filename}, nil
}
