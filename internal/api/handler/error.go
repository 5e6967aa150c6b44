package handler

import (
	"errors"
	"net/http"

	"messagely/internal/common"
)

// respondError maps a core error to the single external status surface.
// Internal detail (store error text in particular) never reaches the
// client; each status carries a fixed message.
func respondError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	message := http.StatusText(status)
	switch {
	case errors.Is(err, common.ErrConflict):
		message = "username already taken"
	case errors.Is(err, common.ErrNotFound):
		message = "requested resource not found"
	case errors.Is(err, common.ErrBadRequest):
		message = "bad request"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		message = "unauthorized"
	}
	common.RespondWithError(w, status, message)
}
