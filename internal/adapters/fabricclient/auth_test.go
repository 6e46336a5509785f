package fabricclient

import (
	"context"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type fakeCredential struct {
	token *oauth2.Token
	err   error
	calls int
}

func (f *fakeCredential) Token(ctx context.Context) (*oauth2.Token, error) {
	f.calls++
	return f.token, f.err
}

func TestTokenCache_CachesUntilExpiryBuffer(t *testing.T) {
	cred := &fakeCredential{token: &oauth2.Token{AccessToken: "tok1", Expiry: time.Now().Add(time.Hour)}}
	cache := newTokenCache(cred)

	tok, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "tok1" {
		t.Fatalf("expected tok1, got %s", tok)
	}

	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.calls != 1 {
		t.Fatalf("expected credential to be called once, got %d", cred.calls)
	}
}

func TestTokenCache_RefreshesWithinExpiryBuffer(t *testing.T) {
	cred := &fakeCredential{token: &oauth2.Token{AccessToken: "tok1", Expiry: time.Now().Add(2 * time.Minute)}}
	cache := newTokenCache(cred)

	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cred.token = &oauth2.Token{AccessToken: "tok2", Expiry: time.Now().Add(time.Hour)}

	tok, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "tok2" {
		t.Fatalf("expected refreshed token tok2, got %s", tok)
	}
	if cred.calls != 2 {
		t.Fatalf("expected a second call once within the expiry buffer, got %d", cred.calls)
	}
}

func TestTokenCache_WrapsFailureAsAPIError(t *testing.T) {
	cred := &fakeCredential{err: context.DeadlineExceeded}
	cache := newTokenCache(cred)

	_, err := cache.Get(context.Background())
	if _, ok := err.(*APIError); !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
}

func TestChainedCredential_FallsBackToAmbientToken(t *testing.T) {
	chain := NewChainedCredential("", "", "", "ambient-token")
	tok, err := chain.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "ambient-token" {
		t.Fatalf("expected ambient-token, got %s", tok.AccessToken)
	}
}

func TestChainedCredential_FailsWhenNoCandidateSucceeds(t *testing.T) {
	chain := NewChainedCredential("", "", "", "")
	if _, err := chain.Token(context.Background()); err == nil {
		t.Fatal("expected error when no credential in the chain can produce a token")
	}
}
