package ghauth_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/infra/ghauth"
)

func TestNew(t *testing.T) {
	t.Run("valid options", func(t *testing.T) {
		client, err := ghauth.New("client-id", "client-secret", "https://example.com/callback")
		gt.NoError(t, err)
		gt.V(t, client != nil).Equal(true)
	})

	t.Run("missing client ID", func(t *testing.T) {
		_, err := ghauth.New("", "client-secret", "https://example.com/callback")
		gt.Error(t, err)
	})

	t.Run("missing client secret", func(t *testing.T) {
		_, err := ghauth.New("client-id", "", "https://example.com/callback")
		gt.Error(t, err)
	})

	t.Run("missing redirect URI", func(t *testing.T) {
		_, err := ghauth.New("client-id", "client-secret", "")
		gt.Error(t, err)
	})
}

func TestExchange(t *testing.T) {
	t.Run("posts form and returns raw body", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			gt.V(t, r.Method).Equal(http.MethodPost)
			gt.V(t, r.Header.Get("Accept")).Equal("application/json")
			gt.NoError(t, r.ParseForm())
			gt.V(t, r.PostForm.Get("client_id")).Equal("client-id")
			gt.V(t, r.PostForm.Get("client_secret")).Equal("client-secret")
			gt.V(t, r.PostForm.Get("code")).Equal("auth-code")
			gt.V(t, r.PostForm.Get("redirect_uri")).Equal("https://example.com/callback")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"gho_xxx","token_type":"bearer"}`))
		}))
		defer srv.Close()

		client, err := ghauth.New("client-id", "client-secret", "https://example.com/callback",
			ghauth.WithEndpoint(srv.URL),
		)
		gt.NoError(t, err)

		body, err := client.Exchange(context.Background(), "auth-code")
		gt.NoError(t, err)
		gt.V(t, body).Equal(`{"access_token":"gho_xxx","token_type":"bearer"}`)
		gt.N(t, calls).Equal(1)
	})

	t.Run("non-OK status is an upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad code", http.StatusUnauthorized)
		}))
		defer srv.Close()

		client, err := ghauth.New("client-id", "client-secret", "https://example.com/callback",
			ghauth.WithEndpoint(srv.URL),
		)
		gt.NoError(t, err)

		_, err = client.Exchange(context.Background(), "bad-code")
		gt.True(t, errors.Is(err, types.ErrUpstreamFailed))
	})

	t.Run("transport failure is an upstream failure with one attempt", func(t *testing.T) {
		failing := &countingClient{err: io.ErrUnexpectedEOF}
		client, err := ghauth.New("client-id", "client-secret", "https://example.com/callback",
			ghauth.WithHTTPClient(failing),
		)
		gt.NoError(t, err)

		_, err = client.Exchange(context.Background(), "auth-code")
		gt.True(t, errors.Is(err, types.ErrUpstreamFailed))
		gt.N(t, failing.calls).Equal(1)
	})

	t.Run("empty code is a validation error", func(t *testing.T) {
		client, err := ghauth.New("client-id", "client-secret", "https://example.com/callback")
		gt.NoError(t, err)

		_, err = client.Exchange(context.Background(), "")
		gt.True(t, errors.Is(err, types.ErrValidation))
	})
}

type countingClient struct {
	calls int
	err   error
}

func (x *countingClient) Do(req *http.Request) (*http.Response, error) {
	x.calls++
	return nil, x.err
}
