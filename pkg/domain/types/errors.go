package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidOption indicates a bad configuration or constructor option.
	ErrInvalidOption = goerr.New("invalid option")

	// ErrValidation indicates a required field of an inbound event or API
	// call is missing or zero. The operation performs no persistence.
	ErrValidation = goerr.New("validation failed")

	// ErrUpstreamFailed indicates an external collaborator (identity
	// exchange endpoint, analysis pipeline) failed or timed out. Distinct
	// from store failures so that callers can retry only the upstream call.
	ErrUpstreamFailed = goerr.New("upstream request failed")
)
