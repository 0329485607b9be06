package auth

import (
	"errors"

	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredential is returned when neither an access token nor a
// complete client credential set is configured.
var ErrMissingCredential = errors.New("access token or client credentials required")

// Conf holds the credential used against the usage API. A static AccessToken
// takes precedence over the client credentials flow.
type Conf struct {
	AccessToken  string   `json:"access_token"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// Validate checks that one usable credential is present.
func (c Conf) Validate() error {
	if c.AccessToken != "" {
		return nil
	}
	if c.ClientID == "" || c.ClientSecret == "" || c.TokenURL == "" {
		return ErrMissingCredential
	}
	return nil
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}
