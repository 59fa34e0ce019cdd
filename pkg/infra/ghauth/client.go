package ghauth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/utils/logging"
	"github.com/secmon-lab/codergate/pkg/utils/safe"
)

// DefaultEndpoint is GitHub's OAuth token endpoint.
const DefaultEndpoint = "https://github.com/login/oauth/access_token"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client exchanges an OAuth authorization code for an access token. It
// performs exactly one attempt per call and returns the raw JSON body;
// extracting the token is the caller's business.
type Client struct {
	endpoint     string
	clientID     types.OAuthClientID
	clientSecret types.OAuthClientSecret
	redirectURI  string
	httpClient   HTTPClient
}

var _ interfaces.TokenExchanger = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(x *Client) {
		x.httpClient = httpClient
	}
}

// WithEndpoint overrides the token endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(x *Client) {
		x.endpoint = endpoint
	}
}

func New(clientID types.OAuthClientID, clientSecret types.OAuthClientSecret, redirectURI string, options ...Option) (*Client, error) {
	if clientID == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "OAuth client ID is empty")
	}
	if clientSecret == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "OAuth client secret is empty")
	}
	if redirectURI == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "OAuth redirect URI is empty")
	}

	client := &Client{
		endpoint:     DefaultEndpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   http.DefaultClient,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Exchange posts the authorization code to the token endpoint and returns
// the response body as-is.
func (x *Client) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", goerr.Wrap(types.ErrValidation, "authorization code is empty")
	}

	form := url.Values{}
	form.Set("client_id", string(x.clientID))
	form.Set("client_secret", string(x.clientSecret))
	form.Set("code", code)
	form.Set("redirect_uri", x.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	logging.From(ctx).Debug("Sending token exchange request",
		slog.String("endpoint", x.endpoint),
		slog.Any("clientID", x.clientID),
	)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(types.ErrUpstreamFailed, "token exchange request failed", goerr.V("cause", err))
	}
	defer safe.Close(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(types.ErrUpstreamFailed, "failed to read token response", goerr.V("cause", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", goerr.Wrap(types.ErrUpstreamFailed, "token endpoint returned non-OK status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	return string(body), nil
}
