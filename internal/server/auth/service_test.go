package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmtc-io/crm/internal/platform/httpx"
	"github.com/gmtc-io/crm/internal/server/shared"
)

type mockUserRepo struct {
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[uuid.UUID]*User),
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return *u, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return *u, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user User) (User, error) {
	key := strings.ToLower(user.Email)
	if _, exists := m.byEmail[key]; exists {
		return User{}, httpx.ErrDuplicate
	}
	user.ID = uuid.New()
	m.byEmail[key] = &user
	m.byID[user.ID] = &user
	return user, nil
}

func newTestService(repo Repository) (*Service, *TokenIssuer) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, tokens), tokens
}

func TestRegisterHashesPasswordAndIssuesNoToken(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ops@example.com",
		FullName: "Ops Person",
		Password: "hunter2hunter2",
		IsActive: true,
	})
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestService(repo)

	input := RegisterInput{Email: "ops@example.com", Password: "hunter2hunter2", IsActive: true}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newMockUserRepo()
	svc, tokens := newTestService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email: "ops@example.com", Password: "hunter2hunter2", IsActive: true,
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "ops@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	claims, err := tokens.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestLoginFailures(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "ops@example.com", Password: "hunter2hunter2", IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "gone@example.com", Password: "hunter2hunter2", IsActive: false,
	})
	require.NoError(t, err)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "hunter2hunter2"},
		{"wrong password", "ops@example.com", "wrong"},
		{"inactive account", "gone@example.com", "hunter2hunter2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestVerifyRejectsForgedAndExpiredTokens(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)
	expired := NewTokenIssuer("test-secret", -time.Minute)

	forged, err := other.Issue(uuid.New(), "x@example.com")
	require.NoError(t, err)
	_, err = tokens.Verify(forged)
	assert.Error(t, err)

	stale, err := expired.Issue(uuid.New(), "x@example.com")
	require.NoError(t, err)
	_, err = tokens.Verify(stale)
	assert.Error(t, err)

	_, err = tokens.Verify("not-a-token")
	assert.Error(t, err)
}
