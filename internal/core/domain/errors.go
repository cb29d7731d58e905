package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUnknownRole          = errors.New("unknown role")
	ErrSessionNotFound      = errors.New("session not found")
	ErrForbidden            = errors.New("not allowed for this role")
	ErrInvalidPage          = errors.New("invalid page")
	ErrUnknownField         = errors.New("unknown form field")
	ErrProductNotFound      = errors.New("product not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrCartLineNotFound     = errors.New("item not in cart")
	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrDuplicateRequest     = errors.New("duplicate request")
)
