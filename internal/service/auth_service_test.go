package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/blog/internal/dbtest"
	"github.com/example/blog/internal/session"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	store := session.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return NewAuthService(dbtest.New(t), store, discardLogger()).WithHashCost(bcrypt.MinCost)
}

func TestLoginResolveLogout(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	u, err := auth.CreateUser(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	token, who, err := auth.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, who.UserID)

	resolved, err := auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, Requester{UserID: u.ID, Username: "alice"}, resolved)

	require.NoError(t, auth.Logout(ctx, token))
	resolved, err = auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, resolved.Authenticated())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)
	_, err := auth.CreateUser(ctx, "bob", "right")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	_, err := auth.CreateUser(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	_, err = auth.CreateUser(ctx, "dave", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	_, err = auth.CreateUser(ctx, "carol", "pw")
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "carol", "pw2")
	assert.Error(t, err)
}

func TestResolveUnknownTokenIsAnonymous(t *testing.T) {
	auth := newAuthService(t)

	r, err := auth.Resolve(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, Requester{}, r)

	r, err = auth.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, r.Authenticated())
}

func TestUnknownUserStillComparesHash(t *testing.T) {
	auth := newAuthService(t)
	require.Empty(t, auth.dummyHash)

	_, err := auth.Authenticate(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NotEmpty(t, auth.dummyHash)
	cost, err := bcrypt.Cost(auth.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
