package quiz

import "errors"

var (
	ErrNotFound         = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrForbidden        = errors.New("not allowed")
	ErrAlreadyCompleted = errors.New("attempt already completed")
	ErrInvalidInput     = errors.New("invalid quiz")
)

// Question types.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
	TypeLongAnswer     = "long-answer"
)

// Quiz lifecycle.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Attempt lifecycle.
const (
	AttemptInProgress = "in-progress"
	AttemptCompleted  = "completed"
	AttemptAbandoned  = "abandoned"
)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`

	// Choice types only.
	Options []Option `json:"options,omitempty"`

	// Canonical answer for short-answer questions.
	CorrectAnswer string `json:"correct_answer,omitempty"`

	Points     float64 `json:"points"`
	Category   string  `json:"category,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
}

type Quiz struct {
	ID           string     `json:"id"`
	CreatorID    string     `json:"creator_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Questions    []Question `json:"questions"`
	TimeLimitMin int        `json:"time_limit_min,omitempty"` // 0 = unlimited
	AssignedTo   []string   `json:"assigned_to,omitempty"`
	IsPublic     bool       `json:"is_public"`
	PassScore    float64    `json:"pass_score"` // percentage 0-100
	Shuffle      bool       `json:"shuffle"`
	Status       string     `json:"status"`
	CreatedAt    int64      `json:"created_at,omitempty"`
}

// Answer is one graded answer inside an attempt. IsCorrect stays nil for
// long-answer questions, which are never auto-graded.
type Answer struct {
	QuestionID      string   `json:"question_id"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	TextAnswer      string   `json:"text_answer,omitempty"`
	IsCorrect       *bool    `json:"is_correct"`
	PointsEarned    float64  `json:"points_earned"`
}

type Attempt struct {
	ID     string `json:"id"`
	QuizID string `json:"quiz_id"`
	UserID string `json:"user_id"`

	Answers []Answer `json:"answers"`

	// MaxScore is pinned when the attempt starts, so mid-attempt quiz edits
	// can't shift the denominator.
	MaxScore        float64 `json:"max_score"`
	TotalScore      float64 `json:"total_score"`
	PercentageScore float64 `json:"percentage_score"`
	Passed          bool    `json:"passed"`
	TimeSpent       int64   `json:"time_spent"` // seconds
	Status          string  `json:"status"`
	StartedAt       int64   `json:"started_at"`
	CompletedAt     int64   `json:"completed_at,omitempty"` // 0 until submitted
}

// SubmittedAnswer is the raw answer payload a student sends at submit time.
type SubmittedAnswer struct {
	QuestionID      string   `json:"question_id"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	TextAnswer      string   `json:"text_answer,omitempty"`
}

// Sanitized strips grading material so a quiz can be shown to a taker.
func (q Question) Sanitized() Question {
	out := q
	out.CorrectAnswer = ""
	if len(q.Options) > 0 {
		out.Options = make([]Option, len(q.Options))
		for i, o := range q.Options {
			out.Options[i] = Option{ID: o.ID, Text: o.Text}
		}
	}
	return out
}

func (q Quiz) Sanitized() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		out.Questions[i] = qu.Sanitized()
	}
	return out
}

// VisibleTo reports whether a user may see or take this quiz.
func (q Quiz) VisibleTo(userID string) bool {
	if q.IsPublic || q.CreatorID == userID {
		return true
	}
	for _, id := range q.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// MaxScore sums question point values.
func (q Quiz) MaxScore() float64 {
	var total float64
	for _, qu := range q.Questions {
		total += qu.Points
	}
	return total
}
