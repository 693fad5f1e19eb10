package api

import (
	"context"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// AuthClient talks to the /auth endpoints
type AuthClient struct {
	hc *httpclient.Client
}

// LoginRequest is the credential body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginEnvelope accepts both token field names the server has used
type loginEnvelope struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

func (e loginEnvelope) token() string {
	if e.Token != "" {
		return e.Token
	}
	return e.AccessToken
}

// Login exchanges credentials for a bearer token and the authenticated user
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, models.User, error) {
	var resp loginEnvelope
	if err := c.hc.Post(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", models.User{}, err
	}
	return resp.token(), resp.User, nil
}

// Me returns the user the current token belongs to
func (c *AuthClient) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.hc.Get(ctx, "/auth/me", nil, &user); err != nil {
		return models.User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return user, nil
}
