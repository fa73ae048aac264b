package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/elderlango/ReactChat/internal/api/http"
	"github.com/elderlango/ReactChat/internal/assignment"
	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/chat"
	"github.com/elderlango/ReactChat/internal/config"
	"github.com/elderlango/ReactChat/internal/db"
	"github.com/elderlango/ReactChat/internal/notify"
	"github.com/elderlango/ReactChat/internal/quiz"
	"github.com/elderlango/ReactChat/internal/rbac"
	"github.com/elderlango/ReactChat/internal/storage"
	"github.com/elderlango/ReactChat/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Services ---
	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	users := user.NewSQLStore(dbh)
	hub := notify.NewHub()
	chatSvc := chat.NewService(chat.NewSQLStore(dbh), hub)
	quizSvc := quiz.NewService(quiz.NewSQLStore(dbh), hub)
	assignSvc := assignment.NewService(assignment.NewSQLStore(dbh), hub)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public auth surface
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", api.SignupHandler(users, tokens, cfg.TokenTTL))
		ar.Post("/login", api.LoginHandler(users, tokens, cfg.TokenTTL))
		ar.Post("/logout", api.LogoutHandler())
		ar.Post("/forgot-password", api.ForgotPasswordHandler(users, cfg.ResetTokenTTL))
		ar.Get("/reset-password/{token}/verify", api.VerifyResetTokenHandler(users))
		ar.Post("/reset-password/{token}", api.ResetPasswordHandler(users))

		ar.Group(func(pr chi.Router) {
			pr.Use(auth.Middleware(tokens))
			pr.Get("/check", api.CheckHandler(users))
			pr.Put("/update-profile", api.UpdateProfileHandler(users, blobs))
		})
	})

	// WebSocket (token-authenticated upgrade; no JWT middleware, the handler
	// checks the token itself so it can also read it from the query string).
	r.Get("/ws", api.WSHandler(tokens, hub))

	// Protected API (JWT → identity+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(tokens))

		pr.Route("/messages", func(mr chi.Router) {
			mr.With(rbac.Require("message:view")).Get("/users", api.SidebarUsersHandler(users))
			mr.With(rbac.Require("message:view")).Get("/{userID}", api.GetMessagesHandler(chatSvc))
			mr.With(rbac.Require("message:send")).Post("/send/{userID}", api.SendMessageHandler(chatSvc))
			mr.With(rbac.Require("message:read")).Put("/read/{messageID}", api.MarkMessageReadHandler(chatSvc))
			mr.With(rbac.Require("message:edit")).Put("/edit/{messageID}", api.EditMessageHandler(chatSvc))
			mr.With(rbac.Require("message:delete")).Delete("/delete/{messageID}", api.DeleteMessageHandler(chatSvc))
		})

		pr.Route("/quizzes", func(qr chi.Router) {
			qr.With(rbac.Require("quiz:create")).Post("/", api.CreateQuizHandler(quizSvc))
			qr.With(rbac.Require("quiz:view")).Get("/", api.ListQuizzesHandler(quizSvc))
			qr.With(rbac.Require("quiz:view")).Get("/{quizID}", api.GetQuizHandler(quizSvc))
			qr.With(rbac.Require("attempt:create")).Post("/{quizID}/attempts", api.StartAttemptHandler(quizSvc))
			qr.With(rbac.Require("attempt:submit")).Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(quizSvc))
			qr.With(rbac.Require("quiz:stats")).Get("/{quizID}/statistics", api.QuizStatisticsHandler(quizSvc))
		})

		pr.Route("/assignments", func(ar chi.Router) {
			ar.With(rbac.Require("assignment:create")).Post("/", api.CreateAssignmentHandler(assignSvc, blobs))
			ar.With(rbac.Require("assignment:view")).Get("/", api.ListAssignmentsHandler(assignSvc))
			ar.With(rbac.Require("assignment:view")).Get("/files/*", api.AttachmentDownloadHandler(assignSvc, blobs))
			ar.With(rbac.Require("assignment:view")).Get("/{assignmentID}", api.GetAssignmentHandler(assignSvc))
			ar.With(rbac.Require("assignment:submit")).Post("/{assignmentID}/submit", api.SubmitAssignmentHandler(assignSvc, blobs))
			ar.With(rbac.Require("assignment:grade")).Post("/{assignmentID}/submissions/{submissionID}/grade", api.GradeSubmissionHandler(assignSvc))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
