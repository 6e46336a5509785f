package fabricclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// fabricScope is the resource scope Fabric's API expects in the token
// request (§4.M authentication).
const fabricScope = "https://api.fabric.microsoft.com/.default"

// tokenExpiryBuffer is subtracted from a cached token's expiry so a
// refresh starts before the server would reject it (§4.M: "cached until
// expiry minus 5 minutes").
const tokenExpiryBuffer = 5 * time.Minute

// Credential resolves an access token for the configured identity.
type Credential interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// clientSecretCredential authenticates via the OAuth2 client-credentials
// grant against Azure AD, the service-principal flow Fabric documents.
type clientSecretCredential struct {
	source oauth2.TokenSource
}

func newClientSecretCredential(tenantID, clientID, clientSecret string) *clientSecretCredential {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID),
		Scopes:       []string{fabricScope},
	}
	return &clientSecretCredential{source: cfg.TokenSource(context.Background())}
}

func (c *clientSecretCredential) Token(ctx context.Context) (*oauth2.Token, error) {
	return c.source.Token()
}

// environmentCredential reads a pre-provisioned bearer token from the
// environment, standing in for a managed-identity/ambient credential
// when no interactive flow is available in a headless CLI context.
type environmentCredential struct {
	tokenValue string
}

func (c *environmentCredential) Token(ctx context.Context) (*oauth2.Token, error) {
	if c.tokenValue == "" {
		return nil, fmt.Errorf("no ambient credential available: set FABRIC_ACCESS_TOKEN or configure a service principal")
	}
	return &oauth2.Token{AccessToken: c.tokenValue, Expiry: time.Now().Add(time.Hour)}, nil
}

// ChainedCredential tries each Credential in order and returns the first
// token acquired without error (§4.M: "chained credentials").
type ChainedCredential struct {
	candidates []Credential
}

// NewChainedCredential builds the credential chain: client-secret first
// if all three fields are set, then the ambient/environment fallback.
func NewChainedCredential(tenantID, clientID, clientSecret, ambientToken string) *ChainedCredential {
	var candidates []Credential
	if tenantID != "" && clientID != "" && clientSecret != "" {
		candidates = append(candidates, newClientSecretCredential(tenantID, clientID, clientSecret))
	}
	candidates = append(candidates, &environmentCredential{tokenValue: ambientToken})
	return &ChainedCredential{candidates: candidates}
}

func (c *ChainedCredential) Token(ctx context.Context) (*oauth2.Token, error) {
	var lastErr error
	for _, cand := range c.candidates {
		tok, err := cand.Token(ctx)
		if err == nil {
			return tok, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all credentials in chain failed: %w", lastErr)
}

// tokenCache serializes token acquisition behind a (non-re-entrant) mutex so at
// most one refresh is in flight, caching the result until
// tokenExpiryBuffer before expiry (§4.M).
type tokenCache struct {
	mu         sync.Mutex
	credential Credential
	token      string
	expiresAt  time.Time
}

func newTokenCache(cred Credential) *tokenCache {
	return &tokenCache{credential: cred}
}

func (c *tokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt.Add(-tokenExpiryBuffer)) {
		return c.token, nil
	}

	tok, err := c.credential.Token(ctx)
	if err != nil {
		return "", &APIError{StatusCode: 401, ErrorCode: "AuthenticationFailed", Message: err.Error()}
	}
	if tok.AccessToken == "" {
		return "", &APIError{StatusCode: 401, ErrorCode: "AuthenticationFailed", Message: "received empty token from credential provider"}
	}

	c.token = tok.AccessToken
	c.expiresAt = tok.Expiry
	return c.token, nil
}
