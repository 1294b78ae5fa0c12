package auth

import (
	"context"
	"fmt"

	"github.com/gitpan/App-dropboxapi/internal/config"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"golang.org/x/oauth2"
)

// authEndpoint is the store's OAuth2 authorization-code endpoint pair
var authEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.dropbox.com/oauth2/authorize",
	TokenURL: "https://api.dropbox.com/oauth2/token",
}

// Manager resolves and persists the access token
type Manager struct {
	keyring *KeyringStorage
}

// NewManager creates an auth manager
func NewManager() *Manager {
	return &Manager{keyring: NewKeyringStorage()}
}

// AccessToken returns the token for API calls: keyring first when the config
// says setup stored it there, config file value otherwise.
func (m *Manager) AccessToken(cfg *config.Config) (string, error) {
	if cfg.TokenInKeyring {
		token, err := m.keyring.LoadToken()
		if err == nil && token != "" {
			return token, nil
		}
	}
	if cfg.AccessToken != "" {
		return cfg.AccessToken, nil
	}
	return "", utils.NewAppError(utils.NewCLIError(utils.ErrCodeAuthRequired,
		"No access token found. Run 'dropbox-api setup' first.").Build())
}

// SaveToken persists a freshly issued token, preferring the keyring. The
// fallback writes it into the config struct for the caller to save.
func (m *Manager) SaveToken(cfg *config.Config, token string) {
	if m.keyring.Available() && m.keyring.SaveToken(token) == nil {
		cfg.TokenInKeyring = true
		cfg.AccessToken = ""
		return
	}
	cfg.TokenInKeyring = false
	cfg.AccessToken = token
}

// oauthConfig builds the OAuth2 config for the authorization-code flow.
// The out-of-band redirect makes the store display the code for pasting.
func oauthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.AppKey,
		ClientSecret: cfg.AppSecret,
		Endpoint:     authEndpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
	}
}

// AuthorizeURL returns the URL the user must visit to approve access
func (m *Manager) AuthorizeURL(cfg *config.Config) (string, error) {
	if cfg.AppKey == "" || cfg.AppSecret == "" {
		return "", utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
			"App key and secret are required before authorization").Build())
	}
	return oauthConfig(cfg).AuthCodeURL("", oauth2.AccessTypeOffline), nil
}

// Exchange trades the pasted authorization code for an access token
func (m *Manager) Exchange(ctx context.Context, cfg *config.Config, code string) (string, error) {
	token, err := oauthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		return "", utils.NewAppError(utils.NewCLIError(utils.ErrCodeAuthRequired,
			fmt.Sprintf("Authorization code exchange failed: %s", err)).Build())
	}
	return token.AccessToken, nil
}
