package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

var badRequest = []error{
	model.ErrInvalidScore,
	model.ErrInvalidLimit,
	model.ErrInvalidUserID,
	model.ErrInvalidBody,
	model.ErrInvalidAvatar,
	model.ErrMissingCredentials,
	model.ErrEmailTaken,
	model.ErrEmailNotFound,
	model.ErrIncorrectPassword,
	model.ErrUseGoogleSignIn,
	model.ErrGoogleProfileNoEmail,
}

// handleError writes the HTTP response for err. Unknown errors are logged and
// hidden behind a generic message.
func handleError(w http.ResponseWriter, err error, logger *logger.Logger) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			writeMessage(w, http.StatusBadRequest, target.Error())
			return
		}
	}

	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, model.ErrUnauthenticated.Error())
	case errors.Is(err, model.ErrForbidden):
		writeMessage(w, http.StatusForbidden, model.ErrForbidden.Error())
	case errors.Is(err, model.ErrNotFound):
		writeMessage(w, http.StatusNotFound, model.ErrNotFound.Error())
	case errors.Is(err, model.ErrGoogleNotConfigured):
		writeMessage(w, http.StatusNotFound, model.ErrGoogleNotConfigured.Error())
	case errors.Is(err, model.ErrPuzzleUnavailable):
		writeMessage(w, http.StatusBadGateway, model.ErrPuzzleUnavailable.Error())
	default:
		logger.Error("HTTP handler: unexpected error", "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
