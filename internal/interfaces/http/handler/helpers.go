package handler

import "errors"

// Shared parse errors for ID fields inside request bodies
var (
	errInvalidProductID = errors.New("invalid product ID format")
	errInvalidBatchID   = errors.New("invalid batch ID format")
	errInvalidAccountID = errors.New("invalid account ID format")
)
