package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SignIn(ctx context.Context, creds Credentials) (model.Identity, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *mockProvider) SignUp(ctx context.Context, creds Credentials) (model.Identity, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockProvider) Current(ctx context.Context) (model.Identity, bool) {
	args := m.Called(ctx)
	return args.Get(0).(model.Identity), args.Bool(1)
}

var ann = model.Identity{ID: "u-1", Email: "ann@example.com", AccessToken: "tok"}

func newAuthenticator(p Provider) (*Authenticator, *session.State) {
	s := session.New()
	return NewAuthenticator(p, s, zap.NewNop()), s
}

func TestLogin_SuccessSetsUser(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("SignIn", ctx, Credentials{Email: ann.Email, Password: "secret"}).Return(ann, nil)
	a, s := newAuthenticator(p)

	user, err := a.Login(ctx, ann.Email, "secret")

	require.NoError(t, err)
	assert.Equal(t, ann, user)
	got, ok := s.User().User()
	assert.True(t, ok)
	assert.Equal(t, ann, got)
	p.AssertExpectations(t)
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("SignIn", ctx, mock.Anything).Return(model.Identity{}, errors.New("invalid login credentials"))
	a, s := newAuthenticator(p)

	_, err := a.Login(ctx, ann.Email, "wrong")

	assert.ErrorIs(t, err, model.ErrAuthFailed)
	assert.False(t, s.User().SignedIn())
}

func TestLogin_FailureKeepsPreviousUser(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("SignIn", ctx, mock.Anything).Return(model.Identity{}, errors.New("network"))
	a, s := newAuthenticator(p)
	s.SetUser(model.SignedIn(ann))

	_, err := a.Login(ctx, "bob@example.com", "pw")

	require.Error(t, err)
	got, ok := s.User().User()
	assert.True(t, ok)
	assert.Equal(t, ann, got)
}

func TestLogin_MalformedCredentialsNeverReachProvider(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	a, s := newAuthenticator(p)

	_, err := a.Login(ctx, "not-an-email", "pw")
	assert.ErrorIs(t, err, model.ErrAuthFailed)
	assert.ErrorIs(t, err, model.ErrBadCredentials)

	_, err = a.Signup(ctx, ann.Email, "")
	assert.ErrorIs(t, err, model.ErrSignupFailed)
	assert.ErrorIs(t, err, model.ErrBadCredentials)

	p.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	assert.False(t, s.User().SignedIn())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("SignUp", ctx, Credentials{Email: ann.Email, Password: "secret"}).Return(ann, nil).Once()
	p.On("SignUp", ctx, Credentials{Email: "taken@example.com", Password: "secret"}).
		Return(model.Identity{}, errors.New("user already registered")).Once()
	a, s := newAuthenticator(p)

	_, err := a.Signup(ctx, "taken@example.com", "secret")
	assert.ErrorIs(t, err, model.ErrSignupFailed)
	assert.False(t, s.User().SignedIn())

	user, err := a.Signup(ctx, ann.Email, "secret")
	require.NoError(t, err)
	assert.Equal(t, ann, user)
	assert.True(t, s.User().SignedIn())
	p.AssertExpectations(t)
}

func TestLogout_ClearsSessionEvenOnProviderError(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("SignOut", ctx).Return(errors.New("timeout")).Once()
	p.On("SignOut", ctx).Return(nil).Once()
	a, s := newAuthenticator(p)

	s.SetUser(model.SignedIn(ann))
	assert.Error(t, a.Logout(ctx))
	assert.False(t, s.User().SignedIn())

	s.SetUser(model.SignedIn(ann))
	assert.NoError(t, a.Logout(ctx))
	assert.False(t, s.User().SignedIn())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("Current", ctx).Return(ann, true).Once()
	p.On("Current", ctx).Return(model.Identity{}, false).Once()
	a, s := newAuthenticator(p)

	restored := a.Restore(ctx)
	assert.True(t, restored.SignedIn())
	got, _ := s.User().User()
	assert.Equal(t, ann, got)

	restored = a.Restore(ctx)
	assert.False(t, restored.SignedIn())
	assert.False(t, s.User().SignedIn())
}
