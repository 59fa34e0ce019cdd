package server

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/utils/errutil"
)

// handleAccessToken exchanges the ?code= query parameter for an access token
// and relays the identity endpoint's JSON body verbatim.
func handleAccessToken(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"code is required"}`))
			return
		}

		body, err := uc.ExchangeCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, types.ErrUpstreamFailed) {
				errutil.HandleError(r.Context(), "token exchange failed upstream", err)
				safeWrite(w, http.StatusBadGateway, []byte(`{"error":"token exchange failed"}`))
				return
			}
			errutil.HandleError(r.Context(), "fail to exchange access token", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		safeWrite(w, http.StatusOK, []byte(body))
	}
}
