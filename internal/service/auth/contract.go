package auth

import (
	"context"

	"github.com/kotche/notes/internal/model"
)

type (
	Credentials struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required"`
	}

	// Provider verifies credentials. Every SignIn and SignUp call completes
	// exactly once with either an identity or an error.
	Provider interface {
		SignIn(ctx context.Context, creds Credentials) (model.Identity, error)
		SignUp(ctx context.Context, creds Credentials) (model.Identity, error)
		SignOut(ctx context.Context) error
		// Current returns the identity the provider still holds, if any.
		Current(ctx context.Context) (model.Identity, bool)
	}

	SessionStore interface {
		SetUser(session model.Session)
		User() model.Session
	}
)
