package config

import (
	"log/slog"

	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/infra/ghauth"
	"github.com/urfave/cli/v3"
)

type GitHubOAuth struct {
	clientID     types.OAuthClientID
	clientSecret types.OAuthClientSecret `masq:"secret"`
	redirectURI  string
	endpoint     string
}

func (x *GitHubOAuth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-client-id",
			Usage:       "GitHub OAuth client ID",
			Category:    "GitHub OAuth",
			Destination: (*string)(&x.clientID),
			Sources:     cli.EnvVars("CODERGATE_GITHUB_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "github-client-secret",
			Usage:       "GitHub OAuth client secret",
			Category:    "GitHub OAuth",
			Destination: (*string)(&x.clientSecret),
			Sources:     cli.EnvVars("CODERGATE_GITHUB_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-redirect-uri",
			Usage:       "Redirect URI registered for the OAuth app",
			Category:    "GitHub OAuth",
			Destination: &x.redirectURI,
			Sources:     cli.EnvVars("CODERGATE_GITHUB_REDIRECT_URI"),
		},
		&cli.StringFlag{
			Name:        "github-token-endpoint",
			Usage:       "Access token endpoint of the identity provider",
			Category:    "GitHub OAuth",
			Destination: &x.endpoint,
			Sources:     cli.EnvVars("CODERGATE_GITHUB_TOKEN_ENDPOINT"),
			Value:       ghauth.DefaultEndpoint,
		},
	}
}

func (x *GitHubOAuth) Enabled() bool {
	return x.clientID != ""
}

func (x *GitHubOAuth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("clientID", x.clientID),
		slog.Int("clientSecret.len", len(x.clientSecret)),
		slog.Any("redirectURI", x.redirectURI),
		slog.Any("endpoint", x.endpoint),
	)
}

func (x *GitHubOAuth) NewClient() (*ghauth.Client, error) {
	return ghauth.New(x.clientID, x.clientSecret, x.redirectURI,
		ghauth.WithEndpoint(x.endpoint),
	)
}
