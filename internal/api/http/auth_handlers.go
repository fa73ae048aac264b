package http

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/storage"
	"github.com/elderlango/ReactChat/internal/user"
)

func setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// POST /auth/signup  { "full_name", "email", "password", "role" }
func SignupHandler(users *user.SQLStore, tokens *auth.Service, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if req.FullName == "" || req.Email == "" || req.Password == "" {
			writeErr(w, 400, "all fields are required")
			return
		}
		if len(req.Password) < 6 {
			writeErr(w, 400, "password must be at least 6 characters")
			return
		}
		role := req.Role
		switch role {
		case "":
			role = user.RoleStudent
		case user.RoleStudent, user.RoleTeacher:
		default:
			writeErr(w, 400, "invalid role")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		u := user.User{
			ID:           uuid.NewString(),
			FullName:     req.FullName,
			Email:        req.Email,
			Role:         role,
			PasswordHash: string(hash),
		}
		if err := users.Create(r.Context(), u); err != nil {
			writeDomainErr(w, err)
			return
		}
		tok, err := tokens.IssueJWT(u.ID, u.FullName, u.Role)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		setAuthCookie(w, tok, ttl)
		writeJSON(w, http.StatusCreated, u)
	}
}

// POST /auth/login  { "email", "password" }
func LoginHandler(users *user.SQLStore, tokens *auth.Service, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		u, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				writeErr(w, 400, "invalid credentials")
				return
			}
			writeDomainErr(w, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			writeErr(w, 400, "invalid credentials")
			return
		}
		tok, err := tokens.IssueJWT(u.ID, u.FullName, u.Role)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		setAuthCookie(w, tok, ttl)
		writeJSON(w, 200, u)
	}
}

// POST /auth/logout
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setAuthCookie(w, "", -1)
		writeJSON(w, 200, map[string]string{"message": "logged out"})
	}
}

// GET /auth/check
func CheckHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		u, err := users.GetByID(r.Context(), ident.ID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, u)
	}
}

// PUT /auth/update-profile  { "profile_pic": "<base64 or data URL>" }
func UpdateProfileHandler(users *user.SQLStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var req struct {
			ProfilePic string `json:"profile_pic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if req.ProfilePic == "" {
			writeErr(w, 400, "profile pic is required")
			return
		}
		raw := req.ProfilePic
		if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
			raw = raw[i+1:]
		}
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			writeErr(w, 400, "bad image encoding")
			return
		}
		key := "profiles/" + ident.ID
		if _, err := blobs.Put(key, bytes.NewReader(data)); err != nil {
			writeDomainErr(w, err)
			return
		}
		if err := users.UpdateProfilePic(r.Context(), ident.ID, key); err != nil {
			writeDomainErr(w, err)
			return
		}
		u, err := users.GetByID(r.Context(), ident.ID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, u)
	}
}

// POST /auth/forgot-password  { "email" }
//
// Token delivery (mail) is a collaborator concern; the token is logged so a
// dev setup works end to end.
func ForgotPasswordHandler(users *user.SQLStore, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		// Same answer whether or not the account exists.
		resp := map[string]string{"message": "if the account exists, a reset link was sent"}
		u, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			writeJSON(w, 200, resp)
			return
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			writeDomainErr(w, err)
			return
		}
		token := hex.EncodeToString(buf)
		if err := users.CreateResetToken(r.Context(), token, u.ID, time.Now().Add(tokenTTL)); err != nil {
			writeDomainErr(w, err)
			return
		}
		log.Printf("auth: password reset token for %s: %s", u.Email, token)
		writeJSON(w, 200, resp)
	}
}

// GET /auth/reset-password/{token}/verify
func VerifyResetTokenHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if _, err := users.ResetTokenUser(r.Context(), token); err != nil {
			writeErr(w, 400, "invalid or expired token")
			return
		}
		writeJSON(w, 200, map[string]bool{"valid": true})
	}
}

// POST /auth/reset-password/{token}  { "password" }
func ResetPasswordHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if len(req.Password) < 6 {
			writeErr(w, 400, "password must be at least 6 characters")
			return
		}
		userID, err := users.ResetTokenUser(r.Context(), token)
		if err != nil {
			writeErr(w, 400, "invalid or expired token")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if err := users.UpdatePassword(r.Context(), userID, string(hash)); err != nil {
			writeDomainErr(w, err)
			return
		}
		_ = users.DeleteResetToken(r.Context(), token)
		writeJSON(w, 200, map[string]string{"message": "password updated"})
	}
}
