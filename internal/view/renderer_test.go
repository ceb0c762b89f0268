package view

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func minimalViews(t *testing.T) string {
	return writeTemplates(t, map[string]string{
		"error.html":    `<h1>{{.Message}}</h1>{{if .Detail}}<pre>{{.Detail}}</pre>{{end}}`,
		"login.html":    `<form>login {{.Email}}</form>`,
		"register.html": `<form>register</form>`,
	})
}

func TestNew(t *testing.T) {
	t.Run("parses templates", func(t *testing.T) {
		dir := minimalViews(t)
		r, err := New(dir, false)
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("fails when a required template is missing", func(t *testing.T) {
		dir := writeTemplates(t, map[string]string{
			"login.html":    `<form></form>`,
			"register.html": `<form></form>`,
		})
		_, err := New(dir, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error.html")
	})

	t.Run("fails on empty directory", func(t *testing.T) {
		_, err := New(t.TempDir(), false)
		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	dir := minimalViews(t)
	r, err := New(dir, false)
	require.NoError(t, err)

	t.Run("renders template with data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.Render(rec, 200, "login", map[string]string{"Email": "alice@example.com"})

		assert.Equal(t, 200, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "alice@example.com")
	})

	t.Run("unknown template falls back to error page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.Render(rec, 200, "nope", nil)
		assert.Equal(t, 500, rec.Code)
	})
}

func TestRenderError(t *testing.T) {
	dir := minimalViews(t)

	t.Run("production hides the underlying error", func(t *testing.T) {
		r, err := New(dir, false)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r.RenderError(rec, 500, "Something went wrong", errors.New("pq: connection refused"))

		assert.Equal(t, 500, rec.Code)
		assert.Contains(t, rec.Body.String(), "Something went wrong")
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("development includes the underlying error", func(t *testing.T) {
		r, err := New(dir, true)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r.RenderError(rec, 500, "Something went wrong", errors.New("pq: connection refused"))

		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("404 renders distinctly from 500", func(t *testing.T) {
		r, err := New(dir, false)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r.RenderError(rec, 404, "Page not found", nil)
		assert.Equal(t, 404, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page not found")
	})
}
