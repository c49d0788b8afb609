package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
)

type mockResetRepo struct {
	byToken   map[string]*models.PasswordReset
	createErr error
	deleteErr error
	deleted   []string
}

func newMockResetRepo() *mockResetRepo {
	return &mockResetRepo{byToken: make(map[string]*models.PasswordReset)}
}

func (m *mockResetRepo) Create(ctx context.Context, reset *models.PasswordReset) error {
	if m.createErr != nil {
		return m.createErr
	}
	reset.ID = int64(len(m.byToken) + 1)
	m.byToken[reset.Token] = reset
	return nil
}

func (m *mockResetRepo) Consume(ctx context.Context, token string) (*models.PasswordReset, error) {
	reset, ok := m.byToken[token]
	if !ok || reset.Consumed {
		return nil, sql.ErrNoRows
	}
	reset.Consumed = true
	return reset, nil
}

func (m *mockResetRepo) Delete(ctx context.Context, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.byToken, token)
	m.deleted = append(m.deleted, token)
	return nil
}

type mockResetUsers struct {
	users     map[string]*models.User
	passwords map[string]string
}

func newMockResetUsers(users ...*models.User) *mockResetUsers {
	m := &mockResetUsers{users: make(map[string]*models.User), passwords: make(map[string]string)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *mockResetUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockResetUsers) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	if _, ok := m.users[email]; !ok {
		return sql.ErrNoRows
	}
	m.passwords[email] = passwordHash
	return nil
}

type mockResetMailer struct {
	links []string
	err   error
}

func (m *mockResetMailer) SendPasswordReset(to, name, link string) error {
	if m.err != nil {
		return m.err
	}
	m.links = append(m.links, link)
	return nil
}

func newResetService(resets *mockResetRepo, users *mockResetUsers, mail *mockResetMailer, now time.Time) *PasswordResetService {
	svc := NewPasswordResetService(resets, users, mail, validator.New(), zap.NewNop(), ResetConfig{
		TokenTTL:      15 * time.Minute,
		ClientBaseURL: "http://localhost:3000",
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestForgotUnknownEmailCreatesNothing(t *testing.T) {
	resets := newMockResetRepo()
	mail := &mockResetMailer{}
	svc := newResetService(resets, newMockResetUsers(), mail, time.Now().UTC())

	err := svc.Forgot(context.Background(), models.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	assert.Empty(t, resets.byToken)
	assert.Empty(t, mail.links)
}

func TestForgotCreatesTokenAndMailsLink(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resets := newMockResetRepo()
	mail := &mockResetMailer{}
	users := newMockResetUsers(&models.User{Email: "jane@example.com", Name: "Jane"})
	svc := newResetService(resets, users, mail, now)

	require.NoError(t, svc.Forgot(context.Background(), models.ForgotPasswordRequest{Email: "Jane@Example.com"}))

	require.Len(t, resets.byToken, 1)
	for token, reset := range resets.byToken {
		assert.Equal(t, "jane@example.com", reset.Email)
		assert.Equal(t, now.Add(15*time.Minute), reset.ExpiresAt)
		assert.False(t, reset.Consumed)

		require.Len(t, mail.links, 1)
		assert.Equal(t, "http://localhost:3000/reset-password?token="+token, mail.links[0])
	}
}

func TestForgotMailFailureSurfaces(t *testing.T) {
	users := newMockResetUsers(&models.User{Email: "jane@example.com"})
	svc := newResetService(newMockResetRepo(), users, &mockResetMailer{err: assert.AnError}, time.Now().UTC())

	err := svc.Forgot(context.Background(), models.ForgotPasswordRequest{Email: "jane@example.com"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestResetUnknownTokenRejected(t *testing.T) {
	svc := newResetService(newMockResetRepo(), newMockResetUsers(), &mockResetMailer{}, time.Now().UTC())

	err := svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "nope", Password: "newpassword"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "invalid or expired")
}

func TestResetConsumedTokenRejected(t *testing.T) {
	now := time.Now().UTC()
	resets := newMockResetRepo()
	resets.byToken["tok"] = &models.PasswordReset{Email: "jane@example.com", Token: "tok", ExpiresAt: now.Add(time.Hour), Consumed: true}
	svc := newResetService(resets, newMockResetUsers(&models.User{Email: "jane@example.com"}), &mockResetMailer{}, now)

	err := svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "newpassword"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestResetExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		wantErr   bool
	}{
		{"one second before expiry succeeds", now.Add(time.Second), false},
		{"exactly at expiry is expired", now, true},
		{"past expiry is expired", now.Add(-time.Second), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resets := newMockResetRepo()
			resets.byToken["tok"] = &models.PasswordReset{Email: "jane@example.com", Token: "tok", ExpiresAt: tc.expiresAt}
			users := newMockResetUsers(&models.User{Email: "jane@example.com"})
			svc := newResetService(resets, users, &mockResetMailer{}, now)

			err := svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "newpassword"})
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, 400, appErrors.FromError(err).Status)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestResetUpdatesPasswordAndDeletesToken(t *testing.T) {
	now := time.Now().UTC()
	resets := newMockResetRepo()
	resets.byToken["tok"] = &models.PasswordReset{Email: "jane@example.com", Token: "tok", ExpiresAt: now.Add(time.Hour)}
	users := newMockResetUsers(&models.User{Email: "jane@example.com"})
	svc := newResetService(resets, users, &mockResetMailer{}, now)

	require.NoError(t, svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "newpassword"}))

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.passwords["jane@example.com"]), []byte("newpassword")))
	assert.Equal(t, []string{"tok"}, resets.deleted)
}

func TestResetTokenDeleteFailureIgnored(t *testing.T) {
	now := time.Now().UTC()
	resets := newMockResetRepo()
	resets.byToken["tok"] = &models.PasswordReset{Email: "jane@example.com", Token: "tok", ExpiresAt: now.Add(time.Hour)}
	resets.deleteErr = assert.AnError
	users := newMockResetUsers(&models.User{Email: "jane@example.com"})
	svc := newResetService(resets, users, &mockResetMailer{}, now)

	require.NoError(t, svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "newpassword"}))
	assert.NotEmpty(t, users.passwords["jane@example.com"])
}

func TestResetShortPasswordRejected(t *testing.T) {
	svc := newResetService(newMockResetRepo(), newMockResetUsers(), &mockResetMailer{}, time.Now().UTC())

	err := svc.Reset(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "abc"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestForgotTokenLooksLikeUUID(t *testing.T) {
	resets := newMockResetRepo()
	users := newMockResetUsers(&models.User{Email: "jane@example.com"})
	svc := newResetService(resets, users, &mockResetMailer{}, time.Now().UTC())

	require.NoError(t, svc.Forgot(context.Background(), models.ForgotPasswordRequest{Email: "jane@example.com"}))
	for token := range resets.byToken {
		assert.Equal(t, 4, strings.Count(token, "-"))
	}
}
