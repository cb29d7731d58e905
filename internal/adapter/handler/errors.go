package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// apiError is the transport view of a service error.
type apiError struct {
	HTTPStatus int
	GRPCCode   codes.Code
	Code       string
	Message    string
}

func classify(err error) apiError {
	var verr domain.ValidationError
	if errors.As(err, &verr) {
		return apiError{http.StatusBadRequest, codes.InvalidArgument, verr.Code(), verr.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, codes.Unauthenticated, "invalid_credentials", "Invalid username or password"}
	case errors.Is(err, domain.ErrSessionNotFound):
		return apiError{http.StatusUnauthorized, codes.Unauthenticated, "session_not_found", "session expired or unknown"}
	case errors.Is(err, domain.ErrForbidden):
		return apiError{http.StatusForbidden, codes.PermissionDenied, "forbidden", err.Error()}
	case errors.Is(err, domain.ErrUnknownRole):
		return apiError{http.StatusBadRequest, codes.InvalidArgument, "unknown_role", err.Error()}
	case errors.Is(err, domain.ErrInvalidPage):
		return apiError{http.StatusBadRequest, codes.InvalidArgument, "invalid_page", err.Error()}
	case errors.Is(err, domain.ErrUnknownField):
		return apiError{http.StatusBadRequest, codes.InvalidArgument, "unknown_field", err.Error()}
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, domain.ErrConfirmationNotFound):
		return apiError{http.StatusNotFound, codes.NotFound, "not_found", err.Error()}
	case errors.Is(err, domain.ErrDuplicateRequest):
		return apiError{http.StatusConflict, codes.AlreadyExists, "duplicate_request", "duplicate request"}
	default:
		return apiError{http.StatusInternalServerError, codes.Internal, "internal", "internal error"}
	}
}
