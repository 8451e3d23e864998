package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-cli/model"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestContext_ExpiresAt(t *testing.T) {
	exp := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sess := Context{Token: signedToken(t, jwt.MapClaims{"sub": "9", "exp": exp.Unix()})}

	got, ok := sess.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
	assert.False(t, sess.Expired(exp.Add(-time.Minute)))
	assert.True(t, sess.Expired(exp))

	noExp := Context{Token: signedToken(t, jwt.MapClaims{"sub": "9"})}
	_, ok = noExp.ExpiresAt()
	assert.False(t, ok)
	assert.False(t, noExp.Expired(exp))

	opaque := Context{Token: "not-a-jwt"}
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
}

func TestFromLogin(t *testing.T) {
	sess := FromLogin(model.LoginResponse{Token: "jwt", Role: model.RoleAdmin, Id: 3, Name: "root"})

	assert.Equal(t, Context{Token: "jwt", UserId: 3, Name: "root", Role: model.RoleAdmin}, sess)
	assert.True(t, sess.IsAdmin())
	assert.True(t, sess.HasUser())
	assert.True(t, Context{}.IsZero())
}

func TestNewContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Context{Token: "jwt"})
	sess, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "jwt", sess.Token)
}

type memoryStore struct {
	sess    Context
	cleared int
	loadErr error
}

func (m *memoryStore) LoadSession() (Context, error) { return m.sess, m.loadErr }
func (m *memoryStore) SaveSession(sess Context) error {
	m.sess = sess
	return nil
}
func (m *memoryStore) ClearSession() error {
	m.sess = Context{}
	m.cleared++
	return nil
}

func newTestManager(store Store, now time.Time) *Manager {
	logger, _ := test.NewNullLogger()
	m := NewManager(store, logger)
	m.now = func() time.Time { return now }
	return m
}

func TestManager_DropsExpiredSession(t *testing.T) {
	now := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	store := &memoryStore{}
	m := newTestManager(store, now)

	require.NoError(t, m.Start(Context{Token: signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}), UserId: 9}))

	sess, err := m.Current()
	require.NoError(t, err)
	assert.True(t, sess.IsZero())
	assert.Equal(t, 1, store.cleared)

	_, err = m.Require()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestManager_KeepsLiveSession(t *testing.T) {
	now := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	store := &memoryStore{}
	m := newTestManager(store, now)
	live := Context{Token: signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), UserId: 9}

	require.NoError(t, m.Start(live))
	sess, err := m.Require()
	require.NoError(t, err)
	assert.Equal(t, live, sess)

	require.NoError(t, m.End())
	_, err = m.Require()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestManager_LoadError(t *testing.T) {
	boom := errors.New("corrupt session file")
	m := newTestManager(&memoryStore{loadErr: boom}, time.Now())

	_, err := m.Current()
	assert.ErrorIs(t, err, boom)
}
