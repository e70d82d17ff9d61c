package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// AuthUser is the provider's view of an authenticated account.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the bearer credential set returned by the auth endpoints.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	User         *AuthUser `json:"user"`
}

// AuthAPI is the session endpoint surface consumed by the session service.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	ResetPassword(ctx context.Context, email string) error
}

type authErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// friendlyAuthMessage maps provider error strings to user-facing copy.
func friendlyAuthMessage(raw string) string {
	switch raw {
	case "Invalid login credentials":
		return "Invalid email or password. Please try again."
	case "Email not confirmed":
		return "Please confirm your email address before logging in."
	case "User already registered":
		return "An account with this email already exists."
	case "Password should be at least 6 characters":
		return "Password must be at least 6 characters long."
	case "":
		return "An error occurred. Please try again."
	default:
		return raw
	}
}

func decodeAuthError(data []byte) error {
	var body authErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return errors.New("An unexpected error occurred. Please try again.")
	}
	raw := body.ErrorDescription
	if raw == "" {
		raw = body.Msg
	}
	if raw == "" {
		raw = body.Error
	}
	return errors.New(friendlyAuthMessage(raw))
}

func (c *Client) tokenGrant(ctx context.Context, grantType string, payload interface{}) (*Session, error) {
	url := c.baseURL + "/auth/v1/token?grant_type=" + grantType
	status, data, err := c.doJSON(ctx, http.MethodPost, url, "", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeAuthError(data)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignIn exchanges email+password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenGrant(ctx, "password", map[string]string{"email": email, "password": password})
}

// RefreshSession trades a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	return c.tokenGrant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// SignUp registers a new account. Depending on provider settings the
// returned session may lack tokens until the email is confirmed.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	url := c.baseURL + "/auth/v1/signup"
	status, data, err := c.doJSON(ctx, http.MethodPost, url, "", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeAuthError(data)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	url := c.baseURL + "/auth/v1/logout"
	status, data, err := c.doJSON(ctx, http.MethodPost, url, token, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return decodeAuthError(data)
	}
	return nil
}

// ResetPassword asks the provider to send a recovery email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	url := c.baseURL + "/auth/v1/recover"
	status, data, err := c.doJSON(ctx, http.MethodPost, url, "", map[string]string{"email": email})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return decodeAuthError(data)
	}
	return nil
}
