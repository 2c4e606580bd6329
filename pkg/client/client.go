package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventKind classifies a user-facing notification raised by the
// request pipeline.
type EventKind int

const (
	EventSessionExpired EventKind = iota
	EventServerError
	EventWarning
	EventError
)

type Event struct {
	Kind    EventKind
	Message string
}

// Notifier receives user-facing notifications. Implementations must be
// safe for concurrent use; the pipeline may call Notify from multiple
// goroutines.
type Notifier interface {
	Notify(Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// APIError is a non-2xx response. Message carries the server's error
// payload verbatim when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// errorPayload is the backend's uniform error body.
type errorPayload struct {
	Error string `json:"error"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLoginRedirect sets the hook invoked once when the session
// expires, e.g. to route the UI back to the login page.
func WithLoginRedirect(fn func()) Option {
	return func(c *Client) { c.redirectToLogin = fn }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client is the authenticated request pipeline over the Knowledge Hub
// REST API. It owns the session lifecycle: bearer injection on every
// request, the idempotent expiry transition on 401, and persistence of
// the session blob across restarts.
type Client struct {
	baseURL         string
	http            *http.Client
	store           SessionStore
	notifier        Notifier
	redirectToLogin func()
	log             *zap.Logger

	mu      sync.Mutex
	session Session
}

// New builds a client and initializes the session from the store.
// A malformed persisted blob yields an anonymous session, never an
// error: the blob is logged and discarded.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		store:    NewMemorySessionStore(),
		notifier: nopNotifier{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := c.store.Load()
	if err != nil {
		c.log.Warn("discarding malformed session blob", zap.Error(err))
		session = Session{}
	}
	c.session = session

	return c
}

// Session returns a snapshot of the current session.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token
}

// setSession installs a new authenticated session: both user and token
// become visible together, with no partial state window.
func (c *Client) setSession(user *User, token string) error {
	session := Session{User: user, Token: token, IsAuthenticated: true}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(session); err != nil {
		return err
	}
	c.session = session
	return nil
}

// Logout clears the session. Idempotent: calling it while anonymous is
// a no-op.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{}
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear session store", zap.Error(err))
	}
}

// expireSession is the 401 transition: clear persisted and in-memory
// state, notify, redirect. Concurrent 401s collapse into a single
// notification and redirect; repeats while already anonymous are
// no-ops.
func (c *Client) expireSession() {
	c.mu.Lock()
	wasAuthenticated := c.session.IsAuthenticated
	c.session = Session{}
	if wasAuthenticated {
		if err := c.store.Clear(); err != nil {
			c.log.Warn("failed to clear session store", zap.Error(err))
		}
	}
	c.mu.Unlock()

	if !wasAuthenticated {
		return
	}

	c.notifier.Notify(Event{Kind: EventSessionExpired, Message: "Session expired. Please log in again."})
	if c.redirectToLogin != nil {
		c.redirectToLogin()
	}
}

// get issues an authenticated GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	return c.do(ctx, method, path, nil, &buf, "application/json", out)
}

// do runs one request through the pipeline: attach the bearer token,
// dispatch, then classify the response per the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: "An unexpected error occurred"}
	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.expireSession()
	case resp.StatusCode >= 500:
		// Transient server fault: notify, keep the session.
		c.notifier.Notify(Event{Kind: EventServerError, Message: "Server error. Please try again later."})
	case resp.StatusCode == http.StatusForbidden:
		c.notifier.Notify(Event{Kind: EventWarning, Message: apiErr.Message})
	default:
		c.notifier.Notify(Event{Kind: EventError, Message: apiErr.Message})
	}

	return apiErr
}
