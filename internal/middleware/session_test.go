package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcdsoft/storefront/internal/model"
)

type stubResolver struct {
	resolveFunc func(ctx context.Context, token string) (*model.Account, error)
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*model.Account, error) {
	if s.resolveFunc != nil {
		return s.resolveFunc(ctx, token)
	}
	return nil, nil
}

func captureAccount(t *testing.T) (http.Handler, **model.Account) {
	t.Helper()
	var got *model.Account
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetAccount(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &got
}

func TestSessionMiddleware(t *testing.T) {
	testAccount := &model.Account{
		ID:          "acc-123",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}

	t.Run("attaches account for valid cookie", func(t *testing.T) {
		resolver := &stubResolver{
			resolveFunc: func(ctx context.Context, token string) (*model.Account, error) {
				assert.Equal(t, "tok-1", token)
				return testAccount, nil
			},
		}
		m := NewSessionMiddleware(resolver)
		next, got := captureAccount(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
		rec := httptest.NewRecorder()

		m.Handler(next).ServeHTTP(rec, req)

		require.NotNil(t, *got)
		assert.Equal(t, "acc-123", (*got).ID)
	})

	t.Run("no cookie leaves request anonymous", func(t *testing.T) {
		m := NewSessionMiddleware(&stubResolver{})
		next, got := captureAccount(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()

		m.Handler(next).ServeHTTP(rec, req)

		assert.Nil(t, *got)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unresolvable token leaves request anonymous", func(t *testing.T) {
		m := NewSessionMiddleware(&stubResolver{})
		next, got := captureAccount(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
		rec := httptest.NewRecorder()

		m.Handler(next).ServeHTTP(rec, req)

		assert.Nil(t, *got)
	})

	t.Run("resolver error does not fail the request", func(t *testing.T) {
		resolver := &stubResolver{
			resolveFunc: func(ctx context.Context, token string) (*model.Account, error) {
				return nil, errors.New("db down")
			},
		}
		m := NewSessionMiddleware(resolver)
		next, got := captureAccount(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
		rec := httptest.NewRecorder()

		m.Handler(next).ServeHTTP(rec, req)

		assert.Nil(t, *got)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous request redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		ctx := context.WithValue(req.Context(), accountContextKey, &model.Account{ID: "acc-1"})
		rec := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("authenticated request redirects to products", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		ctx := context.WithValue(req.Context(), accountContextKey, &model.Account{ID: "acc-1"})
		rec := httptest.NewRecorder()

		RedirectIfAuthenticated(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/products", rec.Header().Get("Location"))
	})

	t.Run("anonymous request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()

		RedirectIfAuthenticated(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSessionCookie(t *testing.T) {
	cfg := CookieConfig{
		Domain:   "example.com",
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   3600,
	}

	t.Run("set writes httponly cookie with policy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SetSessionCookie(rec, "tok-1", cfg)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, SessionCookie, c.Name)
		assert.Equal(t, "tok-1", c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 3600, c.MaxAge)
		assert.Equal(t, "example.com", c.Domain)
	})

	t.Run("clear expires the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ClearSessionCookie(rec, cfg)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "", cookies[0].Value)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}
