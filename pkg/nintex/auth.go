package nintex

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/oauth2"
)

// tokenEndpointPath is the identity endpoint, relative to the tenant base URL.
const tokenEndpointPath = "/authentication/v1/token"

// DefaultExpiryLayout is the timestamp layout the identity service uses
// for the expires_at field of a token response. Override it via
// Credentials.ExpiryLayout if the tenant reports a different format.
// A layout mismatch fails the exchange rather than silently treating the
// token as perpetually valid or perpetually expired.
const DefaultExpiryLayout = "01/02/2006 15:04:05"

// Credentials holds the client-credential configuration for the token
// exchange. All fields except ExpiryLayout are required; a missing field
// is a configuration error raised before any network call.
type Credentials struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	GrantType    string

	// ExpiryLayout is the time layout used to parse expires_at.
	// Empty means DefaultExpiryLayout.
	ExpiryLayout string
}

// Validate reports whether the required credential fields are present.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.ClientID, validation.Required),
		validation.Field(&c.ClientSecret, validation.Required),
		validation.Field(&c.GrantType, validation.Required),
	)
}

// tokenResponse mirrors the identity endpoint's JSON response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// CredentialSource exchanges client credentials for bearer tokens and
// caches the result until expiry. It implements TokenSource: every
// Token call returns the cached token when one is present and unexpired,
// and otherwise performs a synchronous exchange first. The mutex
// serializes check-then-refresh so concurrent callers trigger at most
// one exchange.
//
// The exchange itself is never retried: a credential failure is not
// assumed transient, and surfaces immediately with the response body.
type CredentialSource struct {
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger

	mu  sync.Mutex
	tok *oauth2.Token

	// now is the clock used for expiry checks. Tests override it.
	now func() time.Time
}

// NewCredentialSource validates the credentials and returns a source
// with no token cached; the first Token call performs the exchange.
func NewCredentialSource(creds Credentials, httpClient *http.Client, logger *slog.Logger) (*CredentialSource, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("nintex: incomplete credentials: %w", err)
	}

	if creds.ExpiryLayout == "" {
		creds.ExpiryLayout = DefaultExpiryLayout
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialSource{
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Token implements TokenSource.
func (s *CredentialSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok != nil && s.tok.Expiry.After(s.now()) {
		return s.tok.AccessToken, nil
	}

	tok, err := s.exchange()
	if err != nil {
		return "", err
	}

	s.tok = tok

	return tok.AccessToken, nil
}

// Credential returns a copy of the currently cached credential, or nil
// when no token has been acquired yet. Inspection only; the copy does
// not track later refreshes.
func (s *CredentialSource) Credential() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok == nil {
		return nil
	}

	tok := *s.tok

	return &tok
}

// exchange performs one POST to the identity endpoint with the client
// credentials in a form-encoded body. Callers must hold s.mu.
func (s *CredentialSource) exchange() (*oauth2.Token, error) {
	form := url.Values{
		"client_id":     {s.creds.ClientID},
		"client_secret": {s.creds.ClientSecret},
		"grant_type":    {s.creds.GrantType},
	}

	req, err := http.NewRequest(http.MethodPost, s.creds.BaseURL+tokenEndpointPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("nintex: creating token request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s.logger.Debug("exchanging client credentials for bearer token",
		slog.String("client_id", s.creds.ClientID),
	)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nintex: token exchange request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nintex: reading token response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &AuthError{
			Reason: fmt.Sprintf("identity endpoint returned HTTP %d", resp.StatusCode),
			Body:   string(body),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthError{Reason: "unparseable token response", Body: string(body)}
	}

	if tr.AccessToken == "" {
		return nil, &AuthError{Reason: "token response missing access_token", Body: string(body)}
	}

	if tr.ExpiresAt == "" {
		return nil, &AuthError{Reason: "token response missing expires_at", Body: string(body)}
	}

	// The layout carries no zone, so parse in local time, the same
	// clock the expiry comparison uses.
	expiry, err := time.ParseInLocation(s.creds.ExpiryLayout, tr.ExpiresAt, time.Local)
	if err != nil {
		return nil, &AuthError{
			Reason: fmt.Sprintf("expires_at %q does not match layout %q", tr.ExpiresAt, s.creds.ExpiryLayout),
			Body:   string(body),
		}
	}

	s.logger.Info("acquired bearer token",
		slog.Time("expires_at", expiry),
	)

	return &oauth2.Token{AccessToken: tr.AccessToken, Expiry: expiry}, nil
}
