// Package api is the typed HTTP client for the remote finance backend. The
// backend is a collaborator: REST-like JSON over HTTP, credentialed via a
// session cookie.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/store"
)

const defaultTimeout = 15 * time.Second

// Client talks to the backend. The cookie jar carries the session cookie
// issued by the auth endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		log:     log,
	}, nil
}

// Credentials is the body of the login and register calls.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session cookie and the principal.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/login", Credentials{Email: email, Password: password}, &user); err != nil {
		return models.User{}, err
	}
	if err := user.Validate(); err != nil {
		return models.User{}, fmt.Errorf("invalid login response: %w", err)
	}
	return user, nil
}

// Register creates an account and, like Login, establishes a session.
func (c *Client) Register(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", Credentials{Email: email, Password: password}, &user); err != nil {
		return models.User{}, err
	}
	if err := user.Validate(); err != nil {
		return models.User{}, fmt.Errorf("invalid register response: %w", err)
	}
	return user, nil
}

// Logout clears the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Users returns the source backing the admin user collection. Users are
// created by the public registration flow, so only fetch and remove exist.
func (c *Client) Users() store.Source[models.User] {
	return userSource{c}
}

// Transactions returns the source backing the review queue. Transactions are
// submitted by end users; the console only fetches and patches them.
func (c *Client) Transactions() store.Source[models.Transaction] {
	return transactionSource{c}
}

// CompanyAccounts returns the full-CRUD source for payout/receiving profiles.
func (c *Client) CompanyAccounts() store.Source[models.CompanyAccount] {
	return accountSource{c}
}

// do runs one request/response cycle and maps failures onto the error
// taxonomy. out may be nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Trace-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &domain.AuthorizationError{StatusCode: resp.StatusCode, Msg: serverMessage(raw)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &domain.RemoteError{StatusCode: resp.StatusCode, Msg: serverMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
		}
	}
	return nil
}

// serverMessage pulls the human-readable message field out of an error body.
// Absent or unparseable bodies yield "", letting callers fall back to a
// per-operation default.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
