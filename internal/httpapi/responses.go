package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardlink/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError maps domain failures onto the gateway's wire codes.
// A 401 tells the view to drop into the login/welcome flow; backend
// rejections keep their free-text message verbatim.
func WriteDomainError(w http.ResponseWriter, err error) {
	var backendErr *domain.BackendError
	var shapeErr *domain.UnrecognizedShapeError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
	case errors.Is(err, domain.ErrMembershipRequired):
		WriteError(w, http.StatusForbidden, "membership_required", domain.MembershipRequiredMessage)
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, domain.ErrConfirmationRequired):
		WriteError(w, http.StatusBadRequest, "confirmation_required", "confirm this action first")
	case errors.Is(err, domain.ErrReservedFolder):
		WriteError(w, http.StatusBadRequest, "reserved_folder", "reserved folders cannot be changed")
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	case errors.As(err, &backendErr):
		WriteError(w, http.StatusBadGateway, "backend_error", backendErr.Message)
	case errors.As(err, &shapeErr):
		WriteError(w, http.StatusBadGateway, "backend_error", "backend returned an unrecognized payload")
	default:
		WriteError(w, http.StatusBadGateway, "backend_unreachable", err.Error())
	}
}
