package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
)

var errMalformedBody = errors.New("malformed request body")

// errorResponse - body of every failed request.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeError - every failure is reported as a client error.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Status:  statusName(http.StatusBadRequest),
		Message: errorMessage(err),
	})
}

func errorMessage(err error) string {
	var moveErr *apperror.IllegalMoveError
	var validationErr *apperror.ValidationError

	switch {
	case errors.As(err, &moveErr):
		return capitalize(moveErr.Reason)
	case errors.Is(err, apperror.ErrWrongTurn):
		return "Wrong turn"
	case errors.As(err, &validationErr):
		return "Request field(s) " + strings.Join(validationErr.Fields, ", ") + " not valid"
	case errors.Is(err, errMalformedBody):
		return "Malformed request body"
	default:
		return "Internal error"
	}
}

// statusName - "Bad Request" becomes "BAD_REQUEST".
func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
