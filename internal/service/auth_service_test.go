package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/red-heart/auth-service/internal/config"
	"github.com/red-heart/auth-service/internal/domain"
	"github.com/red-heart/auth-service/internal/repository"
	"github.com/red-heart/auth-service/internal/session"
)

type fakeCredentialRepo struct {
	accounts   map[string]*domain.Account
	createErr  error
	creates    int
	duplicates bool
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{accounts: map[string]*domain.Account{}}
}

func key(role domain.Role, email string) string {
	return string(role) + "|" + email
}

func (f *fakeCredentialRepo) GetByEmail(_ context.Context, role domain.Role, email string) (*domain.Account, error) {
	account, ok := f.accounts[key(role, email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return account, nil
}

func (f *fakeCredentialRepo) Create(_ context.Context, role domain.Role, account *domain.Account) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	k := key(role, account.Email)
	if _, exists := f.accounts[k]; exists || f.duplicates {
		return repository.ErrDuplicateEmail
	}
	account.ID = "acct-" + k
	account.CreatedAt = time.Now()
	f.accounts[k] = account
	return nil
}

type fakeSessionStore struct {
	entries map[string]string
	ttls    map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessionStore) SetEx(_ context.Context, key, value string, ttl time.Duration) error {
	f.entries[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeSessionStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.entries[key]
	return ok, nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "service-test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newTestService(repo repository.CredentialRepository, store session.Store) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		CredentialRepo: repo,
		SessionTracker: session.NewTracker(store),
	})
}

func TestRegisterIssuesTokenWithRole(t *testing.T) {
	repo := newFakeCredentialRepo()
	store := newFakeSessionStore()
	svc := newTestService(repo, store)

	token, exp, err := svc.Register(context.Background(), domain.RolePatient, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, domain.RolePatient, claims.Role)

	stored, err := repo.GetByEmail(context.Background(), domain.RolePatient, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash, "plaintext must never be persisted")
	assert.Len(t, store.entries, 1, "issuance must record a session entry")
	assert.Equal(t, time.Hour, store.ttls["session:"+claims.ID])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeCredentialRepo()
	svc := newTestService(repo, newFakeSessionStore())

	_, _, err := svc.Register(context.Background(), domain.RolePatient, "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), domain.RolePatient, "a@x.com", "pw2")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, repo.creates)
}

func TestRegisterConstraintRaceMapsToEmailTaken(t *testing.T) {
	// Pre-check misses but the insert hits the unique constraint, as happens
	// when two registrations for the same email race.
	repo := newFakeCredentialRepo()
	repo.duplicates = true
	svc := newTestService(repo, newFakeSessionStore())

	_, _, err := svc.Register(context.Background(), domain.RolePatient, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInUniformRejection(t *testing.T) {
	repo := newFakeCredentialRepo()
	svc := newTestService(repo, newFakeSessionStore())

	_, _, err := svc.Register(context.Background(), domain.RolePatient, "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, unknownErr := svc.SignIn(context.Background(), domain.RolePatient, "nobody@x.com", "pw1")
	_, _, wrongPwErr := svc.SignIn(context.Background(), domain.RolePatient, "a@x.com", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPwErr, "unknown email and bad password must be indistinguishable")
}

func TestSignInSuccess(t *testing.T) {
	repo := newFakeCredentialRepo()
	store := newFakeSessionStore()
	svc := newTestService(repo, store)

	_, _, err := svc.Register(context.Background(), domain.RoleDoctor, "doc@x.com", "pw1")
	require.NoError(t, err)

	token, _, err := svc.SignIn(context.Background(), domain.RoleDoctor, "doc@x.com", "pw1")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	assert.Len(t, store.entries, 2, "register and sign-in each track a session")
}

func TestRejectPathsWriteNothing(t *testing.T) {
	repo := newFakeCredentialRepo()
	store := newFakeSessionStore()
	svc := newTestService(repo, store)

	_, _, err := svc.SignIn(context.Background(), domain.RolePatient, "nobody@x.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, repo.creates)
	assert.Empty(t, store.entries)
}

func TestRolePartitionsAreIndependent(t *testing.T) {
	repo := newFakeCredentialRepo()
	svc := newTestService(repo, newFakeSessionStore())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, domain.RolePatient, "a@x.com", "pw1")
	require.NoError(t, err)

	// Same email registers independently under the doctor partition.
	token, _, err := svc.Register(ctx, domain.RoleDoctor, "a@x.com", "pw2")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, claims.Role)

	// Passwords stay partition-scoped.
	_, _, err = svc.SignIn(ctx, domain.RolePatient, "a@x.com", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, domain.RoleDoctor, "a@x.com", "pw2")
	assert.NoError(t, err)
}
