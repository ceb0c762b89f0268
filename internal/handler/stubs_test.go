package handler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lcdsoft/storefront/internal/database"
	"github.com/lcdsoft/storefront/internal/mailer"
	"github.com/lcdsoft/storefront/internal/model"
	"github.com/lcdsoft/storefront/internal/repository"
	"github.com/lcdsoft/storefront/internal/view"
)

// testRenderer builds a renderer over minimal templates so handler tests can
// assert on rendered markers instead of real markup.
func testRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	dir := t.TempDir()

	templates := map[string]string{
		"error.html":           `error:{{.Status}}:{{.Message}}`,
		"login.html":           `login{{if .Error}}:error={{.Error}}{{end}}{{if .Data.Email}}:email={{.Data.Email}}{{end}}`,
		"register.html":        `register{{if .Error}}:error={{.Error}}{{end}}{{if .Data.Email}}:email={{.Data.Email}}{{end}}`,
		"forgot_password.html": `forgot{{if .Data.Requested}}:requested{{end}}`,
		"reset_password.html":  `reset:token={{.Data.Token}}{{if .Error}}:error={{.Error}}{{end}}`,
		"products.html":        `products:{{len .Data.Products}}`,
		"product_form.html":    `form{{if .Data.Editing}}:edit={{.Data.ID}}{{end}}{{if .Error}}:error={{.Error}}{{end}}`,
		"dashboard.html":       `dashboard:{{.Data.ProductCount}}`,
		"contact.html":         `contact{{if .Data.Sent}}:sent{{end}}{{if .Error}}:error={{.Error}}{{end}}`,
		"help.html":            `help`,
	}
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	renderer, err := view.New(dir, false)
	require.NoError(t, err)
	return renderer
}

// Stub repositories with overridable behavior per test. Unset functions
// behave as an empty store.

type stubAccountRepo struct {
	findByID    func(ctx context.Context, id string) (*model.Account, error)
	findByEmail func(ctx context.Context, email string) (*model.Account, error)
	create      func(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
}

func (s *stubAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if s.findByID == nil {
		return nil, nil
	}
	return s.findByID(ctx, id)
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	if s.findByEmail == nil {
		return nil, nil
	}
	return s.findByEmail(ctx, email)
}

func (s *stubAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	if s.create == nil {
		return &model.Account{ID: "acc-1", Email: params.Email, DisplayName: params.DisplayName}, nil
	}
	return s.create(ctx, params)
}

func (s *stubAccountRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return nil
}

func (s *stubAccountRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (s *stubAccountRepo) WithTx(tx *sqlx.Tx) repository.AccountRepository { return s }

type stubSessionRepo struct {
	findByTokenHash func(ctx context.Context, tokenHash string) (*model.Session, error)
	deleted         []string
}

func (s *stubSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	if s.findByTokenHash == nil {
		return nil, nil
	}
	return s.findByTokenHash(ctx, tokenHash)
}

func (s *stubSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return &model.Session{ID: "sess-1", TokenHash: params.TokenHash, AccountID: params.AccountID}, nil
}

func (s *stubSessionRepo) Renew(ctx context.Context, id string, expiresAt time.Time) error {
	return nil
}

func (s *stubSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	s.deleted = append(s.deleted, tokenHash)
	return nil
}

func (s *stubSessionRepo) DeleteByAccountID(ctx context.Context, accountID string) error { return nil }

func (s *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository { return s }

type stubProductRepo struct {
	findByID func(ctx context.Context, id string) (*model.Product, error)
	findAll  func(ctx context.Context, limit, offset int) ([]model.Product, error)
	create   func(ctx context.Context, params model.CreateProductParams) (*model.Product, error)
	update   func(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error)
	deleted  []string
	count    int
}

func (s *stubProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if s.findByID == nil {
		return nil, nil
	}
	return s.findByID(ctx, id)
}

func (s *stubProductRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if s.findAll == nil {
		return []model.Product{}, nil
	}
	return s.findAll(ctx, limit, offset)
}

func (s *stubProductRepo) Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error) {
	if s.create == nil {
		return &model.Product{ID: params.ID, Name: params.Name, PriceCents: params.PriceCents}, nil
	}
	return s.create(ctx, params)
}

func (s *stubProductRepo) Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error) {
	if s.update == nil {
		return nil, nil
	}
	return s.update(ctx, id, params)
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductRepo) Count(ctx context.Context) (int, error) { return s.count, nil }

func (s *stubProductRepo) WithTx(tx *sqlx.Tx) repository.ProductRepository { return s }

type stubResetRepo struct {
	findActive func(ctx context.Context, tokenHash string) (*model.PasswordReset, error)
	created    []model.CreatePasswordResetParams
	used       []string
}

func (s *stubResetRepo) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	if s.findActive == nil {
		return nil, nil
	}
	return s.findActive(ctx, tokenHash)
}

func (s *stubResetRepo) Create(ctx context.Context, params model.CreatePasswordResetParams) (*model.PasswordReset, error) {
	s.created = append(s.created, params)
	return &model.PasswordReset{ID: params.ID, TokenHash: params.TokenHash, AccountID: params.AccountID}, nil
}

func (s *stubResetRepo) MarkUsed(ctx context.Context, id string) error {
	s.used = append(s.used, id)
	return nil
}

func (s *stubResetRepo) DeleteByAccountID(ctx context.Context, accountID string) error { return nil }

func (s *stubResetRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubResetRepo) WithTx(tx *sqlx.Tx) repository.PasswordResetRepository { return s }

type stubMailer struct {
	sent []mailer.Message
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(&sqlx.Tx{})
}
