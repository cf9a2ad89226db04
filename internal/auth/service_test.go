package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-please-rotate"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewInMemoryUserRepository(), NewInMemorySessionStore(), testSecret, time.Hour, nil)
}

func registerAli(t *testing.T, svc *Service) *Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Ali@Example.com",
		Name:     "Ali Mammadov",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return sess
}

func TestRegisterOpensSession(t *testing.T) {
	svc := newTestService(t)
	sess := registerAli(t, svc)

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ali@example.com", sess.User.Email, "email is lowercased")
	assert.Equal(t, RoleUser, sess.User.Role, "role is never client-assigned")

	u, err := svc.Validate(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	registerAli(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "ali@example.com",
		Name:     "Someone Else",
		Password: "another pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc := newTestService(t)
	registerAli(t, svc)

	_, err1 := svc.Login(context.Background(), &LoginRequest{Email: "ali@example.com", Password: "wrong"})
	_, err2 := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "wrong"})
	assert.ErrorIs(t, err1, ErrInvalidCredentials)
	assert.Equal(t, err1, err2, "unknown email must be indistinguishable from bad password")
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t)
	sess := registerAli(t, svc)

	require.NoError(t, svc.Logout(context.Background(), sess.Token))

	_, err := svc.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired, "JWT stays signed but the session is gone")

	assert.NoError(t, svc.Logout(context.Background(), sess.Token), "double logout is benign")
}

func TestValidateRejectsForgedToken(t *testing.T) {
	svc := newTestService(t)
	sess := registerAli(t, svc)

	forged, err := MakeToken(sess.User, "different-secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), forged)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok-1", "user-1", time.Minute))

	userID, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestRedisSessionStoreDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok-2", "user-2", time.Minute))
	require.NoError(t, store.Delete(ctx, "tok-2"))

	_, err := store.Get(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.NoError(t, store.Delete(ctx, "tok-2"), "deleting a dead session is fine")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3hunter3"))
}
