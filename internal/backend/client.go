// Package backend is the client of the team backend REST API
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/agilechain/chainsync/internal/httpclient"
	"github.com/agilechain/chainsync/internal/session"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
)

const (
	userTeamPath = "/api/groups/user-team"
	loginPath    = "/api/auth/login"
)

var (
	// ErrNoTeam is returned when the current user belongs to no team
	ErrNoTeam = errors.New("user has no team")

	// ErrLoginFailed is returned when the backend rejects the credentials
	ErrLoginFailed = errors.New("login failed")
)

// TokenSource returns the bearer token of the current session
type TokenSource func(ctx context.Context) (string, error)

// SessionToken reads the token from a session store
func SessionToken(store session.Store) TokenSource {
	return func(ctx context.Context) (string, error) {
		s, err := store.Load(ctx)
		if err != nil {
			return "", err
		}
		return s.Token, nil
	}
}

// Client talks to the team backend
type Client struct {
	baseURL string
	http    httpclient.Client
	token   TokenSource
	now     func() time.Time
}

// NewClient creates a backend client. token may be nil for unauthenticated use (login).
func NewClient(baseURL string, http httpclient.Client, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
		token:   token,
		now:     time.Now,
	}
}

// CurrentTeam returns the team of the logged-in user
func (c *Client) CurrentTeam(ctx context.Context) (*pkgsync.Team, error) {
	opts, err := c.authOptions(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.http.Get(ctx, c.baseURL+userTeamPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current team: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to fetch current team: invalid JSON response")
	}

	res := gjson.ParseBytes(body)
	data := res.Get("data")
	if !res.Get("success").Bool() || !data.IsObject() {
		return nil, ErrNoTeam
	}

	role := data.Get("member_role").String()
	if role == "" {
		role = data.Get("role").String()
	}
	return &pkgsync.Team{
		ID:           data.Get("id").Int(),
		Name:         data.Get("name").String(),
		BlockchainID: data.Get("blockchain_id").Int(),
		Role:         role,
	}, nil
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	body, err := c.http.PostJSON(ctx, c.baseURL+loginPath, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, loginMessage(httpErr.Body, httpErr.Message))
		}
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	res := gjson.ParseBytes(body)
	token := firstString(res, "token", "data.token")
	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, loginMessage(body, "no token in response"))
	}

	user := res.Get("user")
	if !user.Exists() {
		user = res.Get("data.user")
	}
	return &session.Session{
		Token: token,
		User: session.User{
			ID:    user.Get("id").Int(),
			Name:  user.Get("name").String(),
			Email: user.Get("email").String(),
			Role:  user.Get("role").String(),
		},
		CreatedAt: c.now().UTC(),
	}, nil
}

func (c *Client) authOptions(ctx context.Context) ([]httpclient.RequestOption, error) {
	if c.token == nil {
		return nil, nil
	}
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	return []httpclient.RequestOption{httpclient.WithBearerToken(token)}, nil
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := res.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}

func loginMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	return fallback
}
