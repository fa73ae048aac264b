package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/elderlango/ReactChat/internal/assignment"
	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/chat"
	"github.com/elderlango/ReactChat/internal/quiz"
	"github.com/elderlango/ReactChat/internal/user"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainErr maps service errors to HTTP statuses. Anything unrecognized
// is an internal failure and stays opaque to the client.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound),
		errors.Is(err, quiz.ErrAttemptNotFound),
		errors.Is(err, chat.ErrNotFound),
		errors.Is(err, assignment.ErrNotFound),
		errors.Is(err, assignment.ErrSubmissionNotFound),
		errors.Is(err, user.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrForbidden),
		errors.Is(err, chat.ErrForbidden),
		errors.Is(err, assignment.ErrForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, quiz.ErrAlreadyCompleted),
		errors.Is(err, assignment.ErrAlreadySubmitted):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, quiz.ErrInvalidInput),
		errors.Is(err, chat.ErrInvalidInput),
		errors.Is(err, assignment.ErrInvalidInput),
		errors.Is(err, user.ErrEmailTaken):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("api: internal error: %v", err)
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "not authenticated")
	}
	return ident, ok
}
