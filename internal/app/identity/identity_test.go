package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserEndpoint(t *testing.T, wantToken string, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+wantToken, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func inboundRequest(cookieName, cookieValue string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/livekit/token", nil)
	if cookieName != "" {
		r.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	return r
}

func TestExchangeSuccess(t *testing.T) {
	ts := newUserEndpoint(t, "session-token", http.StatusOK,
		`{"id":"user-1","email":"host@example.com"}`)
	defer ts.Close()

	p := NewHTTPProvider(ts.URL, "anon-key")

	id, err := p.Exchange(context.Background(), inboundRequest("sb-access-token", "session-token"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, "host@example.com", id.Email)
}

func TestExchangeProjectScopedCookie(t *testing.T) {
	ts := newUserEndpoint(t, "session-token", http.StatusOK, `{"id":"user-1"}`)
	defer ts.Close()

	p := NewHTTPProvider(ts.URL, "anon-key")
	// The project ref derives from the endpoint host's first label.
	p.projectRef = "myproject"

	id, err := p.Exchange(context.Background(), inboundRequest("sb-myproject-auth-token", "session-token"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
}

func TestExchangeNoCookie(t *testing.T) {
	p := NewHTTPProvider("https://project.supabase.co", "anon-key")

	_, err := p.Exchange(context.Background(), inboundRequest("", ""))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestExchangeRejectedSession(t *testing.T) {
	ts := newUserEndpoint(t, "bad-token", http.StatusUnauthorized, `{"msg":"invalid token"}`)
	defer ts.Close()

	p := NewHTTPProvider(ts.URL, "anon-key")

	_, err := p.Exchange(context.Background(), inboundRequest("sb-access-token", "bad-token"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestExchangeEmptyUserFailsClosed(t *testing.T) {
	ts := newUserEndpoint(t, "session-token", http.StatusOK, `{}`)
	defer ts.Close()

	p := NewHTTPProvider(ts.URL, "anon-key")

	_, err := p.Exchange(context.Background(), inboundRequest("sb-access-token", "session-token"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestProjectRefFromURL(t *testing.T) {
	assert.Equal(t, "myproject", projectRefFromURL("https://myproject.supabase.co"))
	assert.Equal(t, "localhost", projectRefFromURL("http://localhost:54321"))
}
