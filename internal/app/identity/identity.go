/*
Package identity verifies who is making a token request.

It exchanges the caller's session cookie for an authenticated identity against the
external identity provider (a Supabase GoTrue endpoint). The exchange fails closed:
any provider error, non-200 status, or empty user id leaves the caller anonymous.
*/
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Identity is the authenticated caller of a request. It is scoped to one request
// and never persisted.
type Identity struct {
	ID    string
	Email string
}

// Provider exchanges an inbound HTTP request's session credentials for an identity.
type Provider interface {
	Exchange(ctx context.Context, r *http.Request) (*Identity, error)
}

// ErrNoSession indicates the request carried no recognizable session cookie.
var ErrNoSession = errors.New("identity: no session cookie present")

// ErrNotAuthenticated indicates the provider rejected the session or returned no user.
var ErrNotAuthenticated = errors.New("identity: session is not authenticated")

// HTTPProvider verifies sessions against a GoTrue-compatible REST endpoint
// (GET {baseURL}/auth/v1/user with the project anon key and the session token).
type HTTPProvider struct {
	baseURL    string
	anonKey    string
	projectRef string
	client     *http.Client
}

// NewHTTPProvider constructs a provider for the given project base URL and anon key.
// The HTTP client timeout is a transport-level safety net; the pipeline's stage
// budget is the authoritative deadline.
func NewHTTPProvider(baseURL, anonKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		projectRef: projectRefFromURL(baseURL),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// projectRefFromURL extracts the project ref (first host label) from a project URL,
// used to recognize the per-project auth cookie name.
func projectRefFromURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// sessionToken extracts the session access token from the request's cookies.
// Both the legacy "sb-access-token" cookie and the per-project
// "sb-<ref>-auth-token" cookie are recognized.
func (p *HTTPProvider) sessionToken(r *http.Request) string {
	if c, err := r.Cookie("sb-access-token"); err == nil && c.Value != "" {
		return c.Value
	}
	if p.projectRef != "" {
		if c, err := r.Cookie("sb-" + p.projectRef + "-auth-token"); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Exchange implements Provider. It resolves the session cookie to an identity,
// failing closed on any error or empty result.
func (p *HTTPProvider) Exchange(ctx context.Context, r *http.Request) (*Identity, error) {
	token := p.sessionToken(r)
	if token == "" {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build user request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: user request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return nil, ErrNotAuthenticated
	}

	var user userResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&user); err != nil {
		return nil, fmt.Errorf("identity: decode user response: %w", err)
	}

	if user.ID == "" {
		return nil, ErrNotAuthenticated
	}

	return &Identity{ID: user.ID, Email: user.Email}, nil
}
