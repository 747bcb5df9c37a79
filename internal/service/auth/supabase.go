package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"github.com/kotche/notes/internal/model"
)

type (
	passwordAuth interface {
		SignInWithEmailPassword(email, password string) (*types.TokenResponse, error)
		Signup(req types.SignupRequest) (*types.SignupResponse, error)
	}

	// tokenSession is the part of the GoTrue API that acts on behalf of a signed-in user.
	tokenSession interface {
		GetUser() (*types.UserResponse, error)
		Logout() error
	}
)

var errNoAccessToken = errors.New("provider returned no access token")

// SupabaseProvider is one user's view of Supabase Auth. It caches the identity
// of the last successful sign-in the way a client SDK keeps its current user.
type SupabaseProvider struct {
	auth      passwordAuth
	withToken func(token string) tokenSession

	mu      sync.Mutex
	current *model.Identity
}

// NewSupabaseClient connects to the Supabase project at url.
func NewSupabaseClient(url, key string) (gotrue.Client, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create supabase client: %w", err)
	}
	return client.Auth, nil
}

// SupabaseFactory returns a constructor of per-chat providers sharing client.
func SupabaseFactory(client gotrue.Client) func() Provider {
	return func() Provider {
		return newSupabaseProvider(client, func(token string) tokenSession {
			return client.WithToken(token)
		})
	}
}

func newSupabaseProvider(auth passwordAuth, withToken func(string) tokenSession) *SupabaseProvider {
	return &SupabaseProvider{auth: auth, withToken: withToken}
}

func (p *SupabaseProvider) SignIn(ctx context.Context, creds Credentials) (model.Identity, error) {
	return p.complete(ctx, func() (model.Identity, error) {
		resp, err := p.auth.SignInWithEmailPassword(creds.Email, creds.Password)
		if err != nil {
			return model.Identity{}, fmt.Errorf("supabase sign in: %w", err)
		}
		if resp.AccessToken == "" {
			return model.Identity{}, errNoAccessToken
		}
		return identityOf(resp.Session.User, resp.AccessToken), nil
	})
}

func (p *SupabaseProvider) SignUp(ctx context.Context, creds Credentials) (model.Identity, error) {
	return p.complete(ctx, func() (model.Identity, error) {
		resp, err := p.auth.Signup(types.SignupRequest{
			Email:    creds.Email,
			Password: creds.Password,
		})
		if err != nil {
			return model.Identity{}, fmt.Errorf("supabase sign up: %w", err)
		}

		// With autoconfirm on the project answers with a session, otherwise
		// with the bare user.
		if resp.Session.AccessToken != "" {
			return identityOf(resp.Session.User, resp.Session.AccessToken), nil
		}
		return identityOf(resp.User, ""), nil
	})
}

func (p *SupabaseProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	if current == nil || current.AccessToken == "" {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- p.withToken(current.AccessToken).Logout() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("supabase logout: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current re-validates the cached access token. A rejected token drops the
// cached identity.
func (p *SupabaseProvider) Current(ctx context.Context) (model.Identity, bool) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return model.Identity{}, false
	}
	if current.AccessToken == "" {
		return *current, true
	}

	type result struct {
		resp *types.UserResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.withToken(current.AccessToken).GetUser()
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			p.forget(current)
			return model.Identity{}, false
		}
		return identityOf(r.resp.User, current.AccessToken), true
	case <-ctx.Done():
		return model.Identity{}, false
	}
}

// complete runs call off the caller's goroutine and delivers its single
// result, or the context error if ctx ends first.
func (p *SupabaseProvider) complete(ctx context.Context, call func() (model.Identity, error)) (model.Identity, error) {
	type result struct {
		user model.Identity
		err  error
	}
	done := make(chan result, 1)
	go func() {
		user, err := call()
		done <- result{user, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return model.Identity{}, r.err
		}
		p.mu.Lock()
		p.current = &r.user
		p.mu.Unlock()
		return r.user, nil
	case <-ctx.Done():
		return model.Identity{}, ctx.Err()
	}
}

func (p *SupabaseProvider) forget(stale *model.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == stale {
		p.current = nil
	}
}

func identityOf(user types.User, accessToken string) model.Identity {
	return model.Identity{
		ID:          user.ID.String(),
		Email:       user.Email,
		AccessToken: accessToken,
	}
}
