package models

import "errors"

var (
	ErrInvalidUser    = errors.New("provided user does not exist")
	ErrForbidden      = errors.New("provided user does not have permission for this operation")
	ErrNoRFP          = errors.New("requested rfp does not exist")
	ErrNoOffer        = errors.New("requested offer does not exist")
	ErrInvalidState   = errors.New("operation is not allowed in the current lifecycle state")
	ErrDuplicateOffer = errors.New("seller has already submitted an offer for this rfp")
	ErrValidation     = errors.New("invalid input")
)
