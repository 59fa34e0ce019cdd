package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// ExchangeCode trades an OAuth authorization code for an access token via
// the configured identity exchange client.
func (x *UseCase) ExchangeCode(ctx context.Context, code string) (string, error) {
	exchanger := x.clients.TokenExchanger()
	if exchanger == nil {
		return "", goerr.Wrap(types.ErrInvalidOption, "token exchanger is not configured")
	}

	return exchanger.Exchange(ctx, code)
}
