package model

import "errors"

var (
	// ErrConfiguration marks malformed seed or holdings input. It aborts a run.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingData marks a series too short to evaluate.
	ErrMissingData = errors.New("missing data")
	// ErrDataUnavailable marks a ticker the data source could not serve.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidPrice marks a non-positive price handed to sizing.
	ErrInvalidPrice = errors.New("invalid price")
	ErrRateFetch    = errors.New("rate fetch failed")
	ErrDelivery     = errors.New("delivery failed")
	ErrPersistence  = errors.New("persistence failed")
)
