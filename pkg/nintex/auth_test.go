package nintex

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIdentityServer returns an httptest server answering the token
// endpoint with a token that expires one hour from now, plus an exchange
// counter.
func newIdentityServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var exchanges atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, tokenEndpointPath, r.URL.Path)

		exchanges.Add(1)

		expiresAt := time.Now().Add(time.Hour).Format(DefaultExpiryLayout)
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_at":%q}`, exchanges.Load(), expiresAt)
	}))
	t.Cleanup(srv.Close)

	return srv, &exchanges
}

func testCredentials(baseURL string) Credentials {
	return Credentials{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		GrantType:    "client_credentials",
	}
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, testCredentials("https://us.nintex.io").Validate())

	missing := testCredentials("https://us.nintex.io")
	missing.ClientSecret = ""

	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClientSecret")
}

func TestNewCredentialSourceRejectsIncomplete(t *testing.T) {
	_, err := NewCredentialSource(Credentials{BaseURL: "https://us.nintex.io"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete credentials")
}

func TestTokenExchangeSendsForm(t *testing.T) {
	var gotContentType string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"grant_type":    r.PostFormValue("grant_type"),
		}

		expiresAt := time.Now().Add(time.Hour).Format(DefaultExpiryLayout)
		fmt.Fprintf(w, `{"access_token":"tok","expires_at":%q}`, expiresAt)
	}))
	t.Cleanup(srv.Close)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	tok, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, "tok", tok)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"grant_type":    "client_credentials",
	}, gotForm)
}

func TestTokenCachedUntilExpiry(t *testing.T) {
	srv, exchanges := newIdentityServer(t)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	first, err := source.Token()
	require.NoError(t, err)

	second, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, exchanges.Load())
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	srv, exchanges := newIdentityServer(t)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	first, err := source.Token()
	require.NoError(t, err)

	// Move the clock past the token's expiry.
	source.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	second, err := source.Token()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.EqualValues(t, 2, exchanges.Load())
}

func TestConcurrentTokenSingleExchange(t *testing.T) {
	srv, exchanges := newIdentityServer(t)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tok, err := source.Token()
			assert.NoError(t, err)
			assert.NotEmpty(t, tok)
		}()
	}

	wg.Wait()

	assert.EqualValues(t, 1, exchanges.Load())
}

func TestTokenExchangeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	t.Cleanup(srv.Close)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	_, err = source.Token()
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Reason, "HTTP 401")
	assert.Contains(t, authErr.Body, "invalid_client")
}

func TestTokenExchangeBadResponses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{
			name:       "not json",
			body:       "<html>oops</html>",
			wantReason: "unparseable token response",
		},
		{
			name:       "missing access_token",
			body:       `{"expires_at":"01/02/2030 12:00:00"}`,
			wantReason: "missing access_token",
		},
		{
			name:       "missing expires_at",
			body:       `{"access_token":"tok"}`,
			wantReason: "missing expires_at",
		},
		{
			name:       "expiry layout mismatch",
			body:       `{"access_token":"tok","expires_at":"2030-01-02T12:00:00Z"}`,
			wantReason: "does not match layout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
			require.NoError(t, err)

			_, err = source.Token()
			require.Error(t, err)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Contains(t, authErr.Reason, tt.wantReason)
		})
	}
}

func TestCustomExpiryLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		expiresAt := time.Now().Add(time.Hour).Format(time.RFC3339)
		fmt.Fprintf(w, `{"access_token":"tok","expires_at":%q}`, expiresAt)
	}))
	t.Cleanup(srv.Close)

	creds := testCredentials(srv.URL)
	creds.ExpiryLayout = time.RFC3339

	source, err := NewCredentialSource(creds, srv.Client(), discardLogger())
	require.NoError(t, err)

	tok, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestCredentialReturnsCopy(t *testing.T) {
	srv, _ := newIdentityServer(t)

	source, err := NewCredentialSource(testCredentials(srv.URL), srv.Client(), discardLogger())
	require.NoError(t, err)

	assert.Nil(t, source.Credential())

	_, err = source.Token()
	require.NoError(t, err)

	cred := source.Credential()
	require.NotNil(t, cred)
	assert.Equal(t, "tok-1", cred.AccessToken)
	assert.True(t, cred.Expiry.After(time.Now()))

	// Mutating the copy must not affect the cached credential.
	cred.AccessToken = "tampered"

	again := source.Credential()
	assert.Equal(t, "tok-1", again.AccessToken)
}
