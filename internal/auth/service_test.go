// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/core"
)

type fakeUserProvider struct {
	users          map[string]*UserInfo
	passwordWrites map[string]string
	versionBumps   int
}

func newFakeUserProvider(users ...*UserInfo) *fakeUserProvider {
	m := make(map[string]*UserInfo, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserProvider{users: m, passwordWrites: map[string]string{}}
}

func (f *fakeUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserProvider) Create(
	_ context.Context,
	params CreateUserParams,
) (*UserInfo, error) {
	return &UserInfo{ID: "new", Email: params.Email}, nil
}

func (f *fakeUserProvider) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	f.versionBumps++
	f.users[userID].TokenVersion++
	return nil
}

func (f *fakeUserProvider) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	f.passwordWrites[userID] = passwordHash
	return nil
}

type fakeTokenRepo struct {
	revokedUsers []string
}

func (f *fakeTokenRepo) Create(_ context.Context, _ *RefreshToken) error {
	return nil
}

func (f *fakeTokenRepo) FindByHash(
	_ context.Context,
	_ string,
) (*RefreshToken, error) {
	return nil, core.ErrNotFound
}

func (f *fakeTokenRepo) FindByID(
	_ context.Context,
	_ string,
) (*RefreshToken, error) {
	return nil, core.ErrNotFound
}

func (f *fakeTokenRepo) MarkAsUsed(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeTokenRepo) RevokeByID(_ context.Context, _ string) error {
	return nil
}

func (f *fakeTokenRepo) RevokeByFamilyID(_ context.Context, _ string) error {
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	f.revokedUsers = append(f.revokedUsers, userID)
	return nil
}

func (f *fakeTokenRepo) GetActiveSessionsForUser(
	_ context.Context,
	_ string,
) ([]RefreshToken, error) {
	return nil, nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := core.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(&fakeTokenRepo{}, nil, newFakeUserProvider(), nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, "", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	provider := newFakeUserProvider(&UserInfo{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "right"),
		Status:       "active",
	})
	svc := NewService(&fakeTokenRepo{}, nil, provider, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	}, "", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginSuspendedAccount(t *testing.T) {
	provider := newFakeUserProvider(&UserInfo{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "right"),
		Status:       "suspended",
	})
	svc := NewService(&fakeTokenRepo{}, nil, provider, nil)

	// The right password against a suspended account is forbidden, not
	// invalid credentials: the caller proved who they are.
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "right",
	}, "", "")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.Equal(t, "account suspended", appErr.Message)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	provider := newFakeUserProvider(&UserInfo{
		ID:           "u1",
		PasswordHash: mustHash(t, "current"),
	})
	svc := NewService(&fakeTokenRepo{}, nil, provider, nil)

	err := svc.ChangePassword(context.Background(), "u1", "not-current", "next")

	// Wrong current password is a validation failure, not a 401; the
	// session is already authenticated.
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Current password is incorrect", appErr.Message)
	assert.Empty(t, provider.passwordWrites)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := &fakeTokenRepo{}
	provider := newFakeUserProvider(&UserInfo{
		ID:           "u1",
		PasswordHash: mustHash(t, "current"),
	})
	svc := NewService(repo, nil, provider, nil)

	err := svc.ChangePassword(context.Background(), "u1", "current", "next")
	require.NoError(t, err)

	newHash, ok := provider.passwordWrites["u1"]
	require.True(t, ok)
	valid, verr := core.VerifyPassword("next", newHash)
	require.NoError(t, verr)
	assert.True(t, valid)

	// Every other session dies with the old password.
	assert.Equal(t, []string{"u1"}, repo.revokedUsers)
	assert.Equal(t, 1, provider.versionBumps)
}

func TestValidateTokenVersion(t *testing.T) {
	provider := newFakeUserProvider(&UserInfo{ID: "u1", TokenVersion: 3})
	svc := NewService(&fakeTokenRepo{}, nil, provider, nil)
	ctx := context.Background()

	assert.NoError(t, svc.ValidateTokenVersion(ctx, "u1", 3))
	assert.NoError(t, svc.ValidateTokenVersion(ctx, "u1", 4))

	err := svc.ValidateTokenVersion(ctx, "u1", 2)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}
