package supabase

import (
	"context"
	"fmt"

	supa "github.com/nedpals/supabase-go"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/types"
)

func NewClient(cfg *cfgpkg.Config) *supa.Client {
	return supa.CreateClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
}

// Auth adapts the provider's auth client to the session.Authenticator
// contract, converting provider user records into local typed snapshots.
type Auth struct {
	client *supa.Client
	log    *zap.SugaredLogger
}

func NewAuth(client *supa.Client, log *zap.SugaredLogger) *Auth {
	return &Auth{client: client, log: log}
}

func userFromProvider(u *supa.User) (*types.User, error) {
	if u == nil {
		return nil, fmt.Errorf("provider returned no user")
	}
	doc, err := types.DocumentFromMetadata(u.UserMetadata)
	if err != nil {
		return nil, err
	}
	return &types.User{ID: u.ID, Email: u.Email, Document: doc}, nil
}

func sessionFromProvider(details *supa.AuthenticatedDetails) (*session.Session, error) {
	if details == nil {
		return nil, fmt.Errorf("provider returned no session")
	}
	user, err := userFromProvider(&details.User)
	if err != nil {
		return nil, err
	}
	return &session.Session{
		AccessToken:  details.AccessToken,
		RefreshToken: details.RefreshToken,
		ExpiresIn:    details.ExpiresIn,
		User:         user,
	}, nil
}

func (a *Auth) SignUp(ctx context.Context, email, password string, doc map[string]interface{}) (*types.User, error) {
	u, err := a.client.Auth.SignUp(ctx, supa.UserCredentials{Email: email, Password: password, Data: doc})
	if err != nil {
		return nil, fmt.Errorf("sign-up rejected: %w", err)
	}
	return userFromProvider(u)
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	details, err := a.client.Auth.SignIn(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign-in rejected: %w", err)
	}
	return sessionFromProvider(details)
}

func (a *Auth) Refresh(ctx context.Context, accessToken, refreshToken string) (*session.Session, error) {
	details, err := a.client.Auth.RefreshUser(ctx, accessToken, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("session refresh rejected: %w", err)
	}
	return sessionFromProvider(details)
}

func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	if err := a.client.Auth.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	return nil
}

func (a *Auth) User(ctx context.Context, accessToken string) (*types.User, error) {
	u, err := a.client.Auth.User(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return userFromProvider(u)
}

func (a *Auth) UpdateUser(ctx context.Context, accessToken string, attrs map[string]interface{}) (*types.User, error) {
	u, err := a.client.Auth.UpdateUser(ctx, accessToken, attrs)
	if err != nil {
		return nil, err
	}
	return userFromProvider(u)
}
