package config

import (
	"log/slog"

	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type GitHubApp struct {
	secret types.GitHubAppSecret `masq:"secret"`
}

func (x *GitHubApp) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-app-secret",
			Usage:       "GitHub App Webhook Secret",
			Category:    "GitHub App",
			Destination: (*string)(&x.secret),
			Sources:     cli.EnvVars("CODERGATE_GITHUB_APP_SECRET"),
		},
	}
}

func (x GitHubApp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("Secret.len", len(x.secret)),
	)
}

func (x GitHubApp) Secret() types.GitHubAppSecret {
	return x.secret
}
