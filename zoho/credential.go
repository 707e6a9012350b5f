package zoho

import (
	"fmt"
	"strings"
)

const (
	KeyClientID     = "ZOHO_CLIENT_ID"
	KeyClientSecret = "ZOHO_CLIENT_SECRET"
	KeyRefreshToken = "ZOHO_REFRESH_TOKEN"
	KeyRedirectURI  = "ZOHO_REDIRECT_URL"
	KeyAccessToken  = "ZOHO_ACCESS_TOKEN"
	KeyAccountsURL  = "ZOHO_ACCOUNTS_URL"
)

const DefaultTokenEndpoint = "https://accounts.zoho.in/oauth/v2/token"

// Credential holds the OAuth client configuration and the current access token. AccessToken is
// only ever replaced by the result of a successful refresh.
type Credential struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURI  string
	AccessToken  string
	Endpoint     string
}

// ConfigStore is the durable key/value storage for the credential.
type ConfigStore interface {
	Set(key, value string) error
}

func CredentialFromConfig(values map[string]string) Credential {
	endpoint := strings.TrimSpace(values[KeyAccountsURL])
	if endpoint == "" {
		endpoint = DefaultTokenEndpoint
	}

	return Credential{
		ClientID:     strings.TrimSpace(values[KeyClientID]),
		ClientSecret: strings.TrimSpace(values[KeyClientSecret]),
		RefreshToken: strings.TrimSpace(values[KeyRefreshToken]),
		RedirectURI:  strings.TrimSpace(values[KeyRedirectURI]),
		AccessToken:  strings.TrimSpace(values[KeyAccessToken]),
		Endpoint:     endpoint,
	}
}

// Persist writes the access token to the store. No other keys are modified.
func (c Credential) Persist(store ConfigStore) error {
	if c.AccessToken == "" {
		return fmt.Errorf("no access token to save")
	}

	return store.Set(KeyAccessToken, c.AccessToken)
}

func (c Credential) validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("missing %v", KeyClientID)
	}

	if c.ClientSecret == "" {
		return fmt.Errorf("missing %v", KeyClientSecret)
	}

	if c.RefreshToken == "" {
		return fmt.Errorf("missing %v", KeyRefreshToken)
	}

	if c.Endpoint == "" {
		return fmt.Errorf("missing token endpoint")
	}

	return nil
}
