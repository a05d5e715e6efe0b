// Package api implements the service interfaces against the EasyTask HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"easytask/internal/service"
)

// TokenProvider supplies the bearer token for protected requests.
// The token is read at send time, per request, so a cleared session is
// seen by every request issued after the clear. There is no ambient
// process-wide header state.
type TokenProvider interface {
	// Token returns the current access token. ok is false when no
	// session is active.
	Token() (token string, ok bool)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func() (string, bool)

// Token implements TokenProvider.
func (f TokenProviderFunc) Token() (string, bool) { return f() }

// Client talks to the EasyTask API. It implements service.Auth and
// service.Tasks. Timeouts are owned by the injected http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenProvider sets the source of bearer tokens for protected calls.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var (
	_ service.Auth  = (*Client)(nil)
	_ service.Tasks = (*Client)(nil)
)

// Register implements service.Auth.
func (c *Client) Register(ctx context.Context, reg service.Registration) (service.RegisterResult, error) {
	var out service.RegisterResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", reg, &out, false)
	return out, err
}

// Login implements service.Auth. The backend expects an OAuth2-style
// form body with username/password fields, not JSON.
func (c *Client) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return service.LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out service.LoginResult
	if err := c.send(req, &out); err != nil {
		return service.LoginResult{}, err
	}
	return out, nil
}

// VerifyEmail implements service.Auth.
func (c *Client) VerifyEmail(ctx context.Context, email, otp string) (string, error) {
	body := map[string]string{"email": email, "otp": otp}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-email-otp", body, &out, false); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResendOTP implements service.Auth.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/resend-email-otp", body, nil, false)
}

// ListTasks implements service.Tasks. Empty filter fields are left out of
// the query string so the backend sees no constraint at all.
func (c *Client) ListTasks(ctx context.Context, label service.Label, priority service.Priority) ([]service.Task, error) {
	path := "/api/tasks"
	q := url.Values{}
	if label != "" {
		q.Set("label", string(label))
	}
	if priority != "" {
		q.Set("priority", string(priority))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tasks []service.Task
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Tasks.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	var out service.Task
	err := c.doJSON(ctx, http.MethodPost, "/api/tasks", draft, &out, true)
	return out, err
}

// SetTaskDone implements service.Tasks.
func (c *Client) SetTaskDone(ctx context.Context, id string, done bool) error {
	body := map[string]bool{"is_done": done}
	return c.doJSON(ctx, http.MethodPatch, "/api/tasks/"+id, body, nil, true)
}

// DeleteTask implements service.Tasks.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil, true)
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (skipped when out is nil or the body is empty).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, protected bool) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if protected {
		tok, ok := c.token()
		if !ok {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	return c.send(req, out)
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token()
}

func (c *Client) send(req *http.Request, out any) error {
	c.log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api response",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
