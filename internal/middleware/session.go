package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lcdsoft/storefront/internal/model"
)

const SessionCookie = "session"

type contextKey string

const accountContextKey contextKey = "account"

// GetAccount returns the account resolved for this request, or nil when the
// request carries no valid session. Handlers receive identity through the
// context; nothing request-scoped is ever mutated on a shared object.
func GetAccount(ctx context.Context) *model.Account {
	if account, ok := ctx.Value(accountContextKey).(*model.Account); ok {
		return account
	}
	return nil
}

// SessionResolver turns a raw cookie token into the owning account.
// Expired or destroyed sessions resolve to nil.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Account, error)
}

// CookieConfig carries the deployment's cookie policy.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type SessionMiddleware struct {
	resolver SessionResolver
}

func NewSessionMiddleware(resolver SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{resolver: resolver}
}

// Handler resolves the session cookie into an account on every request.
// It never blocks the request: gating is done by RequireAuth and
// RedirectIfAuthenticated on the routes that need it.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		account, err := m.resolver.Resolve(r.Context(), cookie.Value)
		if err != nil {
			log.Error().Err(err).Msg("session middleware: resolve failed")
			next.ServeHTTP(w, r)
			return
		}
		if account == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects requests without a resolved account to the login
// page. Protected pages sit behind this.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAccount(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends already-authenticated visitors away from the
// login, registration and reset pages, mirroring RequireAuth in the other
// direction.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAccount(r.Context()) != nil {
			http.Redirect(w, r, "/products", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}
