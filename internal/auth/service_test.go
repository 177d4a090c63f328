package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

type memoryRepo struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*User
	byID    map[int64]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]*User), byID: make(map[int64]*User)}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byEmail[email]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: user with email %s already exists", shared.ErrUserExists, email)
	}
	r.nextID++
	now := time.Now()
	user := &User{ID: r.nextID, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	r.byEmail[email] = user
	r.byID[user.ID] = user
	return user, nil
}

func (r *memoryRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

func newTestService(t *testing.T, clock *fakeClock) (*Service, *memoryRepo, *Codec) {
	t.Helper()
	repo := newMemoryRepo()
	var now func() time.Time
	if clock != nil {
		now = clock.Now
	}
	codec := NewCodec([]byte("test-secret"), testIssuer, now)
	svc := NewService(repo, NewPasswordHasher(), codec, ServiceConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	}, nil, nil)
	return svc, repo, codec
}

func TestRegisterLoginRefreshScenario(t *testing.T) {
	svc, _, codec := newTestService(t, nil)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "Ana", profile.Name)
	require.Equal(t, "ana@x.com", profile.Email)

	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, int64(15*60), pair.AccessExpiresIn)
	require.Equal(t, int64(720*3600), pair.RefreshExpiresIn)

	accessClaims, err := codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, TokenKindAccess, accessClaims.Kind)
	require.Equal(t, strconv.FormatInt(profile.ID, 10), accessClaims.Subject)

	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
	require.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

	newClaims, err := codec.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, accessClaims.Subject, newClaims.Subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, "a", "dup@x.com", "password1")
	require.NoError(t, err)

	originalHash := repo.byEmail["dup@x.com"].PasswordHash

	_, err = svc.Register(ctx, "b", "dup@x.com", "password2")
	require.ErrorIs(t, err, shared.ErrUserExists)

	// First registration is untouched by the failed second attempt.
	require.Equal(t, originalHash, repo.byEmail["dup@x.com"].PasswordHash)
	require.Equal(t, first.ID, repo.byEmail["dup@x.com"].ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Real", "real@x.com", "rightpassword")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nonexistent@x.com", "any")
	_, wrongErr := svc.Login(ctx, "real@x.com", "wrongpassword")

	require.ErrorIs(t, unknownErr, shared.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, shared.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshExpiredToken(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc, _, _ := newTestService(t, clock)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)

	clock.Advance(721 * time.Hour)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshTamperedToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, flipLastChar(pair.RefreshToken))
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshUnknownSubject(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)

	repo.delete(profile.ID)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshDoesNotInvalidateOldToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// No revocation list exists: the old refresh token keeps working
	// until its TTL elapses.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestResolveIdentity(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)

	resolved, err := svc.ResolveIdentity(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, profile, resolved)

	_, err = svc.ResolveIdentity(ctx, profile.ID+999)
	require.ErrorIs(t, err, shared.ErrUserNotFound)
}
