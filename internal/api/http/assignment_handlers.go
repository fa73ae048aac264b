package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elderlango/ReactChat/internal/assignment"
	"github.com/elderlango/ReactChat/internal/storage"
)

const (
	maxUploadFiles = 5
	maxUploadBytes = 32 << 20
)

// POST /assignments — JSON body, or multipart form with a "files" part.
func CreateAssignmentHandler(svc *assignment.Service, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var a assignment.Assignment
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeErr(w, 400, "bad multipart form")
				return
			}
			a.Title = r.FormValue("title")
			a.Description = r.FormValue("description")
			a.AssignedTo = r.MultipartForm.Value["assigned_to"]
			due, err := parseDueDate(r.FormValue("due_date"))
			if err != nil {
				writeErr(w, 400, "bad due_date")
				return
			}
			a.DueDate = due
			attachments, err := storeUploads(blobs, "assignments", r.MultipartForm.File["files"])
			if err != nil {
				writeErr(w, 400, err.Error())
				return
			}
			a.Attachments = attachments
		} else {
			if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
		}
		created, err := svc.Create(r.Context(), ident, a)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// GET /assignments
func ListAssignmentsHandler(svc *assignment.Service) http.HandlerFunc {
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

// GET /assignments/{assignmentID}
func GetAssignmentHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		a, err := svc.Get(r.Context(), ident, chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, a)
	}
}

// POST /assignments/{assignmentID}/submit — JSON { "content" } or multipart
// with "content" plus "files".
func SubmitAssignmentHandler(svc *assignment.Service, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var content string
		var attachments []assignment.Attachment
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeErr(w, 400, "bad multipart form")
				return
			}
			content = r.FormValue("content")
			var err error
			attachments, err = storeUploads(blobs, "submissions", r.MultipartForm.File["files"])
			if err != nil {
				writeErr(w, 400, err.Error())
				return
			}
		} else {
			var req struct {
				Content string `json:"content"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			content = req.Content
		}
		a, err := svc.Submit(r.Context(), ident, chi.URLParam(r, "assignmentID"), content, attachments)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// POST /assignments/{assignmentID}/submissions/{submissionID}/grade
func GradeSubmissionHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		var req struct {
			Score    *float64 `json:"score"`
			Feedback string   `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		a, err := svc.GradeSubmission(r.Context(), ident,
			chi.URLParam(r, "assignmentID"), chi.URLParam(r, "submissionID"),
			req.Score, req.Feedback)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, a)
	}
}

// GET /assignments/files/* — streams an attachment the caller may see.
func AttachmentDownloadHandler(svc *assignment.Service, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := callerIdentity(w, r)
		if !ok {
			return
		}
		key := chi.URLParam(r, "*")
		att, err := svc.FindAttachment(r.Context(), ident, key)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		rc, err := blobs.Get(att.Key)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		defer rc.Close()
		mt := att.MimeType
		if mt == "" {
			mt = "application/octet-stream"
		}
		w.Header().Set("Content-Type", mt)
		w.Header().Set("Content-Disposition",
			`attachment; filename="`+url.PathEscape(att.OriginalName)+`"`)
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = io.Copy(w, rc)
	}
}

func storeUploads(blobs storage.BlobStore, prefix string, files []*multipart.FileHeader) ([]assignment.Attachment, error) {
	if len(files) > maxUploadFiles {
		return nil, assignment.ErrInvalidInput
	}
	out := []assignment.Attachment{}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		key := prefix + "/" + uuid.NewString() + "-" + filepath.Base(fh.Filename)
		_, err = blobs.Put(key, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		mt := fh.Header.Get("Content-Type")
		if mt == "" {
			mt = "application/octet-stream"
		}
		out = append(out, assignment.Attachment{
			Key:          key,
			OriginalName: fh.Filename,
			MimeType:     mt,
			Size:         fh.Size,
		})
	}
	return out, nil
}

func parseDueDate(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
