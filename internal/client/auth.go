package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AuthService covers /api/auth.
type AuthService struct {
	c *Client
}

// Register creates an account and stores the issued token.
func (s *AuthService) Register(ctx context.Context, creds Credentials) (*AuthToken, error) {
	return s.issue(ctx, "/api/auth/register", creds)
}

// Login exchanges credentials for a token and stores it.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*AuthToken, error) {
	creds.FullName = ""
	return s.issue(ctx, "/api/auth/login", creds)
}

func (s *AuthService) issue(ctx context.Context, path string, creds Credentials) (*AuthToken, error) {
	var tok AuthToken
	if err := s.c.do(ctx, http.MethodPost, path, nil, creds, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken != "" {
		if err := s.c.tokens.SetToken(tok.AccessToken); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}
	}
	return &tok, nil
}

// Logout forgets the stored token. The backend keeps no session state.
func (s *AuthService) Logout() error {
	return s.c.tokens.ClearToken()
}

// Me returns the profile of the token holder.
func (s *AuthService) Me(ctx context.Context) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe patches the profile and returns the updated user.
func (s *AuthService) UpdateMe(ctx context.Context, upd UserUpdate) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodPatch, "/api/auth/me", nil, upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserService covers /api/users.
type UserService struct {
	c *Client
}

// SearchByCode looks a user up by their short user code.
func (s *UserService) SearchByCode(ctx context.Context, code string) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodGet, "/api/users/search/"+url.PathEscape(code), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
