package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

func (r passwordResponse) identity() Identity {
	return Identity{
		ID:           r.LocalID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
	}
}

func (c *Client) authURL(method string) string {
	return c.authBase + "/accounts:" + method + "?key=" + url.QueryEscape(c.apiKey)
}

// Authenticate signs in with email and password. Every provider rejection
// is reported as AuthInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	var resp passwordResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL("signInWithPassword"),
		passwordRequest{Email: email, Password: password, ReturnSecureToken: true},
		&resp, false, classifySignIn)
	if err != nil {
		return Identity{}, err
	}
	id := resp.identity()
	c.setIdentity(&id)
	c.log.Info().Str("uid", id.ID).Msg("signed in")
	return id, nil
}

// CreateAccount registers a new account. The provider signs the new account
// in as a side effect.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	var resp passwordResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL("signUp"),
		passwordRequest{Email: email, Password: password, ReturnSecureToken: true},
		&resp, false, classifySignUp)
	if err != nil {
		return Identity{}, err
	}
	id := resp.identity()
	if id.Email == "" {
		id.Email = email
	}
	c.setIdentity(&id)
	c.log.Info().Str("uid", id.ID).Msg("account created")
	return id, nil
}

// SignOut forgets the local tokens. Firebase id tokens are stateless, so
// there is nothing to revoke remotely.
func (c *Client) SignOut(ctx context.Context) error {
	c.setIdentity(nil)
	return nil
}

// CurrentIdentity resumes the identity persisted by an earlier run,
// exchanging its refresh token for a fresh id token.
func (c *Client) CurrentIdentity(ctx context.Context) (*Identity, error) {
	if id := c.identity(); id != nil {
		cp := *id
		return &cp, nil
	}
	if c.sessions == nil {
		return nil, nil
	}
	saved, err := c.sessions.LoadSession()
	if err != nil || saved == nil {
		return nil, err
	}
	if saved.RefreshToken == "" {
		return nil, nil
	}

	fresh, err := c.refresh(ctx, *saved)
	if err != nil {
		if IsAuthKind(err, AuthInvalidCredentials) {
			// Refresh token revoked or expired: treat as signed out.
			c.setIdentity(nil)
			return nil, nil
		}
		return nil, err
	}
	c.setIdentity(&fresh)
	cp := fresh
	return &cp, nil
}

// renew exchanges the refresh token of the current identity for a new id
// token. A rejected refresh token signs the client out.
func (c *Client) renew(ctx context.Context) error {
	id := c.identity()
	if id == nil || id.RefreshToken == "" {
		return &RemoteError{Kind: RemoteUnknown, Err: ErrNotSignedIn}
	}
	fresh, err := c.refresh(ctx, *id)
	if err != nil {
		if IsAuthKind(err, AuthInvalidCredentials) {
			c.setIdentity(nil)
		}
		return err
	}
	c.setIdentity(&fresh)
	c.log.Debug().Str("uid", fresh.ID).Msg("id token renewed")
	return nil
}

func (c *Client) refresh(ctx context.Context, saved Identity) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", saved.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenBase+"/token?key="+url.QueryEscape(c.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp refreshResponse
	if err := c.decode(ctx, req, &resp); err != nil {
		return Identity{}, err
	}
	saved.IDToken = resp.IDToken
	if resp.RefreshToken != "" {
		saved.RefreshToken = resp.RefreshToken
	}
	if resp.UserID != "" {
		saved.ID = resp.UserID
	}
	return saved, nil
}

// decode runs a prepared unauthenticated request, classifying failures as
// sign-in errors.
func (c *Client) decode(ctx context.Context, req *http.Request, out *refreshResponse) error {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Kind: RemoteNetwork, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifySignIn(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RemoteError{Kind: RemoteUnknown, Err: fmt.Errorf("decoding token response: %w", err)}
	}
	return nil
}

// classifySignIn maps every 4xx to invalid credentials; provider messages
// are not parsed for sign-in.
func classifySignIn(status int, body []byte) error {
	if status >= 400 && status < 500 {
		return &AuthError{Kind: AuthInvalidCredentials, Err: errors.New(errorMessage(body))}
	}
	return checkStatus(status, body)
}

func classifySignUp(status int, body []byte) error {
	msg := errorMessage(body)
	if status >= 400 && status < 500 {
		if strings.HasPrefix(msg, "EMAIL_EXISTS") {
			return &AuthError{Kind: AuthEmailInUse}
		}
		return &AuthError{Kind: AuthUnknown, Err: errors.New(msg)}
	}
	return checkStatus(status, body)
}
