package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kotche/notes/internal/metrics"
	"github.com/kotche/notes/internal/model"
	"go.uber.org/zap"
)

var validate = validator.New()

// Authenticator routes login, signup and logout intents to the provider and
// records the outcome in the session. A failed attempt never touches the session.
type Authenticator struct {
	provider Provider
	session  SessionStore
	logger   *zap.Logger
}

func NewAuthenticator(provider Provider, session SessionStore, logger *zap.Logger) *Authenticator {
	return &Authenticator{provider: provider, session: session, logger: logger}
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (model.Identity, error) {
	user, err := a.attempt(ctx, "login", Credentials{Email: email, Password: password}, a.provider.SignIn)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", model.ErrAuthFailed, err)
	}
	return user, nil
}

func (a *Authenticator) Signup(ctx context.Context, email, password string) (model.Identity, error) {
	user, err := a.attempt(ctx, "signup", Credentials{Email: email, Password: password}, a.provider.SignUp)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", model.ErrSignupFailed, err)
	}
	return user, nil
}

// Logout clears the session even when the provider fails to sign out.
func (a *Authenticator) Logout(ctx context.Context) error {
	err := a.provider.SignOut(ctx)
	metrics.ObserveAuth("logout", err)
	if err != nil {
		a.logger.Warn("provider sign out failed", zap.Error(err))
	}

	a.session.SetUser(model.Anonymous())
	return err
}

// Restore re-reads the identity the provider still holds and puts it into the
// session, or clears the session when there is none.
func (a *Authenticator) Restore(ctx context.Context) model.Session {
	user, ok := a.provider.Current(ctx)
	if !ok {
		a.session.SetUser(model.Anonymous())
		return model.Anonymous()
	}

	current := model.SignedIn(user)
	a.session.SetUser(current)
	return current
}

func (a *Authenticator) attempt(
	ctx context.Context,
	intent string,
	creds Credentials,
	call func(context.Context, Credentials) (model.Identity, error),
) (model.Identity, error) {
	user, err := a.verify(ctx, creds, call)
	metrics.ObserveAuth(intent, err)
	if err != nil {
		a.logger.Info("authentication attempt failed", zap.String("intent", intent), zap.Error(err))
		return model.Identity{}, err
	}

	a.logger.Debug("authentication attempt succeeded", zap.String("intent", intent), zap.String("email", user.Email))
	a.session.SetUser(model.SignedIn(user))
	return user, nil
}

func (a *Authenticator) verify(
	ctx context.Context,
	creds Credentials,
	call func(context.Context, Credentials) (model.Identity, error),
) (model.Identity, error) {
	if err := validate.Struct(creds); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return model.Identity{}, fmt.Errorf("%w: %s", model.ErrBadCredentials, verrs[0].Field())
		}
		return model.Identity{}, err
	}

	return call(ctx, creds)
}
