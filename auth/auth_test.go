package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	if err := (Conf{AccessToken: "abcd"}).Validate(); err != nil {
		t.Fatalf("access token should validate: %v", err)
	}
	if err := (Conf{}).Validate(); err != ErrMissingCredential {
		t.Fatalf("expected missing credential, got %v", err)
	}
	if err := (Conf{ClientID: "id", TokenURL: "http://x"}).Validate(); err != ErrMissingCredential {
		t.Fatalf("expected missing credential without secret, got %v", err)
	}
}

func TestStaticTokenHeader(t *testing.T) {
	var got string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer api.Close()

	client, err := Conf{AccessToken: "abcd"}.HTTPClient(&http.Client{Timeout: time.Second})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	resp, err := client.Get(api.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if got != "Bearer abcd" {
		t.Fatalf("unexpected header %q", got)
	}
	if client.Timeout != time.Second {
		t.Fatalf("timeout not propagated")
	}
}

func TestClientCredentialsHeader(t *testing.T) {
	// Simple OAuth2 token endpoint returning a static token
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	defer token.Close()

	var got string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer api.Close()

	client, err := Conf{ClientID: "id", ClientSecret: "secret", TokenURL: token.URL}.HTTPClient(nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	resp, err := client.Get(api.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if got != "Bearer token123" {
		t.Fatalf("Authorization header not set: %q", got)
	}
}
