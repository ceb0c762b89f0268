package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/lcdsoft/storefront/internal/config"
)

// allowed content types for form posts
var acceptedContentTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = config.MaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

// Handler caps request bodies and rejects non-form content types on
// body-carrying methods.
func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > m.maxSize {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !acceptedContentType(ct) {
				http.Error(w, "Unsupported content type", http.StatusUnsupportedMediaType)
				return
			}
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}

func acceptedContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	for _, accepted := range acceptedContentTypes {
		if strings.EqualFold(mediaType, accepted) {
			return true
		}
	}
	return false
}
