package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lcdsoft/storefront/internal/config"
	"github.com/lcdsoft/storefront/internal/database"
	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/mailer"
	"github.com/lcdsoft/storefront/internal/model"
	"github.com/lcdsoft/storefront/internal/repository"
	"github.com/lcdsoft/storefront/internal/util"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type AuthService struct {
	db          TxRunner
	accountRepo repository.AccountRepository
	resetRepo   repository.PasswordResetRepository
	sessions    *SessionService
	mail        mailer.Mailer
	mailFrom    string
	baseURL     string
	bcryptCost  int
}

func NewAuthService(
	db TxRunner,
	accountRepo repository.AccountRepository,
	resetRepo repository.PasswordResetRepository,
	sessions *SessionService,
	mail mailer.Mailer,
	mailFrom string,
	baseURL string,
) *AuthService {
	return &AuthService{
		db:          db,
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		sessions:    sessions,
		mail:        mail,
		mailFrom:    mailFrom,
		baseURL:     baseURL,
		bcryptCost:  config.BcryptCost,
	}
}

// Register creates an account. A duplicate email surfaces as a unique-index
// violation from the store, which is the only place uniqueness is enforced.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*model.AccountProjection, error) {
	email = util.NormalizeEmail(email)

	if !util.IsValidEmail(email) {
		return nil, apperrors.ValidationError("Please enter a valid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, apperrors.MissingRequired("display name")
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		return nil, err
	}

	log.Info().Str("accountId", account.ID).Msg("account registered")

	projection := account.Projection()
	return &projection, nil
}

// Login validates credentials and opens a session. Unknown email and wrong
// password return the identical error, and the unknown-email path still pays
// for a bcrypt comparison so the two are not separable by timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AccountProjection, string, error) {
	email = util.NormalizeEmail(email)

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		util.DummyPasswordCompare(password)
		return nil, "", apperrors.InvalidCredentials()
	}

	if !util.CheckPasswordHash(password, account.PasswordHash) {
		return nil, "", apperrors.InvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	projection := account.Projection()
	return &projection, token, nil
}

// Logout destroys the session; destroying a token that is already gone
// succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// RequestPasswordReset always reports the same generic outcome to the
// caller. When the account exists, a single-use reset is stored and the link
// mailed out; mail failures are logged rather than surfaced, since revealing
// them would also reveal the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = util.NormalizeEmail(email)

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return err
	}

	_, err = s.resetRepo.Create(ctx, model.CreatePasswordResetParams{
		ID:        uuid.NewString(),
		TokenHash: util.HashToken(token),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(config.ResetTokenTTL),
	})
	if err != nil {
		return err
	}

	mailCtx, cancel := context.WithTimeout(ctx, config.MailSendTimeout)
	defer cancel()

	msg := mailer.Message{
		From:    s.mailFrom,
		To:      account.Email,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			`<h3>Password reset</h3>
<p>Hello %s,</p>
<p>A password reset was requested for your account. The link below is valid for one hour and can be used once.</p>
<p><a href="%s/reset-password?token=%s">Reset password</a></p>
<p>If you did not request this, you can ignore this message.</p>`,
			html.EscapeString(account.DisplayName), s.baseURL, token,
		),
	}
	if err := s.mail.Send(mailCtx, msg); err != nil {
		log.Error().Err(err).Str("accountId", account.ID).Msg("password reset mail failed")
	}

	return nil
}

// CompletePasswordReset burns the token and installs the new password hash
// in one transaction, then drops every open session for the account.
func (s *AuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.resetRepo.FindActiveByTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return err
	}
	if reset == nil {
		return apperrors.InvalidOrExpiredToken()
	}

	hash, err := util.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.accountRepo.WithTx(tx).UpdatePasswordHash(ctx, reset.AccountID, hash); err != nil {
			return err
		}
		return s.resetRepo.WithTx(tx).MarkUsed(ctx, reset.ID)
	})
	if err != nil {
		return err
	}

	if err := s.sessions.DestroyAll(ctx, reset.AccountID); err != nil {
		log.Warn().Err(err).Str("accountId", reset.AccountID).Msg("session revocation after reset failed")
	}

	log.Info().Str("accountId", reset.AccountID).Msg("password reset completed")
	return nil
}

func validatePassword(password string) error {
	if len(password) < config.PasswordMinLength {
		return apperrors.ValidationError(
			fmt.Sprintf("Password must be at least %d characters", config.PasswordMinLength))
	}
	return nil
}
