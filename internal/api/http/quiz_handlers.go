package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/elderlango/ReactChat/internal/quiz"
)

// POST /quizzes
func CreateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		created, err := svc.Create(r.Context(), ident, q)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// GET /quizzes
func ListQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), ident)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, list)
	}
}

// GET /quizzes/{quizID}
func GetQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		q, err := svc.Get(r.Context(), ident, chi.URLParam(r, "quizID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, q)
	}
}

// POST /quizzes/{quizID}/attempts
func StartAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		res, err := svc.StartAttempt(r.Context(), ident, chi.URLParam(r, "quizID"), time.Now().UnixNano())
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, res)
	}
}

// POST /quizzes/attempts/{attemptID}/submit  { "answers": [...] }
func SubmitAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var req struct {
			Answers []quiz.SubmittedAnswer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		res, err := svc.Submit(r.Context(), ident, chi.URLParam(r, "attemptID"), req.Answers)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, res)
	}
}

// GET /quizzes/{quizID}/statistics
func QuizStatisticsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		stats, err := svc.Statistics(r.Context(), ident, chi.URLParam(r, "quizID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, stats)
	}
}
