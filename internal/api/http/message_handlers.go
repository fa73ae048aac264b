package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elderlango/ReactChat/internal/chat"
	"github.com/elderlango/ReactChat/internal/user"
)

// GET /messages/users — everyone except the caller, for the sidebar.
func SidebarUsersHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		list, err := users.ListOthers(r.Context(), ident.ID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, list)
	}
}

// GET /messages/{userID}
func GetMessagesHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		msgs, err := svc.Conversation(r.Context(), ident, chi.URLParam(r, "userID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, msgs)
	}
}

// POST /messages/send/{userID}  { "body", "image" }
func SendMessageHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var req struct {
			Body  string `json:"body"`
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		m, err := svc.Send(r.Context(), ident, chi.URLParam(r, "userID"), req.Body, req.Image)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// PUT /messages/read/{messageID}
func MarkMessageReadHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		m, err := svc.MarkRead(r.Context(), ident, chi.URLParam(r, "messageID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, m)
	}
}

// PUT /messages/edit/{messageID}  { "body" }
func EditMessageHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		m, err := svc.Edit(r.Context(), ident, chi.URLParam(r, "messageID"), req.Body)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, m)
	}
}

// DELETE /messages/delete/{messageID}
func DeleteMessageHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), ident, chi.URLParam(r, "messageID")); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "deleted"})
	}
}
