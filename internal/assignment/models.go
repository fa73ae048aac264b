package assignment

import "errors"

var (
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrForbidden          = errors.New("not allowed")
	ErrAlreadySubmitted   = errors.New("already submitted")
	ErrInvalidInput       = errors.New("invalid assignment")
)

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Attachment describes an uploaded file; the bytes live in the blob store
// under Key.
type Attachment struct {
	Key          string `json:"key"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

type Grade struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
	GradedAt int64   `json:"graded_at"`
}

type Submission struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	SubmittedAt int64        `json:"submitted_at"`
	Grade       *Grade       `json:"grade,omitempty"` // nil until graded
}

type Assignment struct {
	ID          string       `json:"id"`
	CreatorID   string       `json:"creator_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     int64        `json:"due_date"`
	AssignedTo  []string     `json:"assigned_to"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Submissions []Submission `json:"submissions"`
	Status      string       `json:"status"`
	CreatedAt   int64        `json:"created_at,omitempty"`
}

func (a Assignment) assignedTo(userID string) bool {
	for _, id := range a.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

func (a Assignment) submissionBy(userID string) *Submission {
	for i := range a.Submissions {
		if a.Submissions[i].UserID == userID {
			return &a.Submissions[i]
		}
	}
	return nil
}
