package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// ErrorRenderer renders the shared error page; satisfied by view.Renderer.
type ErrorRenderer interface {
	RenderError(w http.ResponseWriter, status int, message string, cause error)
}

type RecoverMiddleware struct {
	renderer ErrorRenderer
}

func NewRecoverMiddleware(renderer ErrorRenderer) *RecoverMiddleware {
	return &RecoverMiddleware{renderer: renderer}
}

// Handler turns a panicking handler into a rendered 500 page instead of a
// dropped connection.
func (m *RecoverMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				m.renderer.RenderError(w, http.StatusInternalServerError,
					"Internal server error", fmt.Errorf("%v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
