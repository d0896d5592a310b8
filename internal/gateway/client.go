package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	defaultAuthBase      = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenBase     = "https://securetoken.googleapis.com/v1"
	defaultFirestoreBase = "https://firestore.googleapis.com/v1"

	// DefaultTimeout bounds every request made by Client.
	DefaultTimeout = 15 * time.Second
)

// Options configures a Client.
type Options struct {
	APIKey        string
	ProjectID     string
	AuthBase      string
	TokenBase     string
	FirestoreBase string
	Timeout       time.Duration
	// RateLimit caps requests per second; zero means unlimited.
	RateLimit float64
	Sessions  SessionStore
	Logger    zerolog.Logger
	HTTP      *http.Client
}

// Client talks to Firebase Identity Toolkit and the Firestore REST API.
type Client struct {
	apiKey        string
	authBase      string
	tokenBase     string
	documentsBase string
	timeout       time.Duration
	limiter       *rate.Limiter
	sessions      SessionStore
	log           zerolog.Logger
	http          *http.Client

	mu      sync.Mutex
	current *Identity
}

// New creates a Client. Empty base URLs fall back to the public Google endpoints.
func New(opts Options) *Client {
	authBase := strings.TrimRight(orDefault(opts.AuthBase, defaultAuthBase), "/")
	tokenBase := strings.TrimRight(orDefault(opts.TokenBase, defaultTokenBase), "/")
	fsBase := strings.TrimRight(orDefault(opts.FirestoreBase, defaultFirestoreBase), "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		burst = int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
	}

	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:        opts.APIKey,
		authBase:      authBase,
		tokenBase:     tokenBase,
		documentsBase: fmt.Sprintf("%s/projects/%s/databases/(default)/documents", fsBase, opts.ProjectID),
		timeout:       timeout,
		limiter:       rate.NewLimiter(limit, burst),
		sessions:      opts.Sessions,
		log:           opts.Logger,
		http:          httpClient,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Client) identity() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Client) setIdentity(id *Identity) {
	c.mu.Lock()
	c.current = id
	c.mu.Unlock()

	if c.sessions == nil {
		return
	}
	var err error
	if id == nil {
		err = c.sessions.ClearSession()
	} else {
		err = c.sessions.SaveSession(*id)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("persisting session")
	}
}

// do executes req with the standard headers, the rate limiter and the request timeout.
func (c *Client) do(ctx context.Context, req *http.Request, authed bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RemoteError{Kind: RemoteNetwork, Err: err}
	}
	if authed {
		id := c.identity()
		if id == nil || id.IDToken == "" {
			return nil, &RemoteError{Kind: RemoteUnknown, Err: ErrNotSignedIn}
		}
		req.Header.Set("Authorization", "Bearer "+id.IDToken)
	}
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &RemoteError{Kind: RemoteNetwork, Err: err}
	}
	return resp, nil
}

// doJSON sends body as JSON and decodes the response into out. Non-2xx
// responses are handed to classify. An authed request rejected with 401 is
// retried once after renewing the id token.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any, authed bool, classify func(int, []byte) error) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = b
	}

	status, data, err := c.send(ctx, method, url, payload, authed)
	if err == nil && authed && status == http.StatusUnauthorized {
		if rerr := c.renew(ctx); rerr != nil {
			return rerr
		}
		status, data, err = c.send(ctx, method, url, payload, authed)
	}
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		if classify == nil {
			classify = checkStatus
		}
		return classify(status, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &RemoteError{Kind: RemoteUnknown, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// send performs one request and returns the status and body.
func (c *Client) send(ctx context.Context, method, url string, payload []byte, authed bool) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.do(ctx, req, authed)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("url", redact(url)).Msg("request failed")
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &RemoteError{Kind: RemoteNetwork, Err: err}
	}
	c.log.Debug().Str("method", method).Str("url", redact(url)).Int("status", resp.StatusCode).Msg("request")
	return resp.StatusCode, data, nil
}

// checkStatus maps a non-2xx document-store response to a RemoteError.
func checkStatus(status int, body []byte) error {
	msg := errorMessage(body)
	switch status {
	case http.StatusNotFound:
		return &RemoteError{Kind: RemoteNotFound, Err: errors.New(msg)}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return &RemoteError{Kind: RemoteNetwork, Err: fmt.Errorf("status %d: %s", status, msg)}
	default:
		return &RemoteError{Kind: RemoteUnknown, Err: fmt.Errorf("status %d: %s", status, msg)}
	}
}

// errorMessage extracts error.message from a Google API error payload.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}

func redact(url string) string {
	if i := strings.Index(url, "key="); i >= 0 {
		return url[:i] + "key=REDACTED"
	}
	return url
}
