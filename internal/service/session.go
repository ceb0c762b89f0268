package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lcdsoft/storefront/internal/model"
	"github.com/lcdsoft/storefront/internal/repository"
	"github.com/lcdsoft/storefront/internal/util"
)

// SessionService is the server-side session registry. Tokens are random,
// stored only as HMAC-SHA256(secret, token), and carry a TTL. The raw token
// lives exclusively in the browser cookie.
type SessionService struct {
	sessionRepo repository.SessionRepository
	accountRepo repository.AccountRepository
	secret      string
	ttl         time.Duration
	sliding     bool
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	accountRepo repository.AccountRepository,
	secret string,
	ttl time.Duration,
	sliding bool,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		secret:      secret,
		ttl:         ttl,
		sliding:     sliding,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create issues a new session for the account and returns the raw token for
// the cookie.
func (s *SessionService) Create(ctx context.Context, accountID string) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", err
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateSessionParams{
		TokenHash: util.HmacSHA256(s.secret, token),
		AccountID: accountID,
		ExpiresAt: time.Now().Add(s.ttl),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Resolve returns the account owning the token, or nil when the session is
// absent or expired. With sliding renewal enabled the expiry is pushed
// forward once less than half the TTL remains; expiry renewal is the only
// mutation a session ever sees.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Account, error) {
	session, err := s.sessionRepo.FindByTokenHash(ctx, util.HmacSHA256(s.secret, token))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if s.sliding && time.Until(session.ExpiresAt) < s.ttl/2 {
		if err := s.sessionRepo.Renew(ctx, session.ID, time.Now().Add(s.ttl)); err != nil {
			log.Warn().Err(err).Str("sessionId", session.ID).Msg("session renewal failed")
		}
	}

	return s.accountRepo.FindByID(ctx, session.AccountID)
}

// Destroy removes the session. It is idempotent: destroying an unknown or
// already-destroyed token succeeds.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByTokenHash(ctx, util.HmacSHA256(s.secret, token))
}

// DestroyAll drops every session the account holds, e.g. after a password
// change.
func (s *SessionService) DestroyAll(ctx context.Context, accountID string) error {
	return s.sessionRepo.DeleteByAccountID(ctx, accountID)
}
