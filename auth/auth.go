package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource returns the oauth2 token source described by c. Tokens fetched
// through client credentials are cached and refreshed on expiry.
func (c Conf) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.AccessToken, TokenType: "Bearer"}), nil
	}
	cc := c.toOauth2Config()
	return cc.TokenSource(ctx), nil
}

// HTTPClient returns a client that sets the Authorization header on every
// request. base carries timeouts and transport; it is also used to reach the
// token endpoint.
func (c Conf) HTTPClient(base *http.Client) (*http.Client, error) {
	if base == nil {
		base = http.DefaultClient
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("token source: %w", err)
	}
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = base.Timeout
	return client, nil
}
