package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/notify"
)

type Service struct {
	store    Store
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
}

func NewService(store Store, notifier notify.Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create validates and stores a new quiz, then notifies the assignees.
func (s *Service) Create(ctx context.Context, caller auth.Identity, q Quiz) (Quiz, error) {
	if q.Title == "" {
		return Quiz{}, ErrInvalidInput
	}
	q.ID = s.newID()
	q.CreatorID = caller.ID
	q.CreatedAt = s.now().Unix()
	if q.Status == "" {
		q.Status = StatusDraft
	}
	if q.PassScore == 0 {
		q.PassScore = 60
	}
	for i := range q.Questions {
		if err := prepareQuestion(&q.Questions[i], s.newID); err != nil {
			return Quiz{}, err
		}
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	for _, userID := range q.AssignedTo {
		s.notifier.Notify(userID, notify.EventNewQuiz, map[string]string{
			"quiz_id": q.ID,
			"creator": caller.Name,
			"title":   q.Title,
		})
	}
	return q, nil
}

func prepareQuestion(qu *Question, newID func() string) error {
	if qu.Text == "" {
		return ErrInvalidInput
	}
	if qu.ID == "" {
		qu.ID = newID()
	}
	if qu.Points <= 0 {
		qu.Points = 1
	}
	for i := range qu.Options {
		if qu.Options[i].ID == "" {
			qu.Options[i].ID = newID()
		}
	}
	switch qu.Type {
	case TypeMultipleChoice, TypeTrueFalse:
		if qu.Type == TypeTrueFalse && len(qu.Options) != 2 {
			return ErrInvalidInput
		}
		correct := 0
		for _, o := range qu.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return ErrInvalidInput
		}
	case TypeShortAnswer:
		if qu.CorrectAnswer == "" {
			return ErrInvalidInput
		}
	case TypeLongAnswer:
		// nothing to validate
	default:
		return ErrInvalidInput
	}
	return nil
}

// List returns quizzes the caller may see: own, assigned, or public.
// Questions are sanitized except for the caller's own quizzes.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]Quiz, error) {
	all, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	out := []Quiz{}
	for _, q := range all {
		if !q.VisibleTo(caller.ID) {
			continue
		}
		if q.CreatorID != caller.ID {
			q = q.Sanitized()
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Identity, id string) (Quiz, error) {
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if !q.VisibleTo(caller.ID) {
		return Quiz{}, ErrForbidden
	}
	if q.CreatorID != caller.ID {
		q = q.Sanitized()
	}
	return q, nil
}

// StartResult is what a taker receives when an attempt opens: sanitized
// questions, in shuffled order when the quiz asks for it.
type StartResult struct {
	AttemptID    string     `json:"attempt_id"`
	TimeLimitMin int        `json:"time_limit_min,omitempty"`
	Questions    []Question `json:"questions"`
}

// StartAttempt opens an attempt for an assigned-or-public quiz. The shuffle
// seed is a parameter so question order is reproducible.
func (s *Service) StartAttempt(ctx context.Context, caller auth.Identity, quizID string, seed int64) (StartResult, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return StartResult{}, err
	}
	assigned := false
	for _, id := range q.AssignedTo {
		if id == caller.ID {
			assigned = true
			break
		}
	}
	if !assigned && !q.IsPublic {
		return StartResult{}, ErrForbidden
	}

	a := Attempt{
		ID:        s.newID(),
		QuizID:    q.ID,
		UserID:    caller.ID,
		MaxScore:  q.MaxScore(),
		Status:    AttemptInProgress,
		StartedAt: s.now().Unix(),
	}
	if err := s.store.InsertAttempt(ctx, a); err != nil {
		return StartResult{}, err
	}

	questions := make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		questions[i] = qu.Sanitized()
	}
	if q.Shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return StartResult{AttemptID: a.ID, TimeLimitMin: q.TimeLimitMin, Questions: questions}, nil
}

type SubmitResult struct {
	AttemptID       string  `json:"attempt_id"`
	TotalScore      float64 `json:"total_score"`
	PercentageScore float64 `json:"percentage_score"`
	Passed          bool    `json:"passed"`
	TimeSpent       int64   `json:"time_spent"`
}

// Submit grades every answer, finalizes the attempt and notifies the quiz
// creator. Only the attempt owner may submit, and only once.
func (s *Service) Submit(ctx context.Context, caller auth.Identity, attemptID string, answers []SubmittedAnswer) (SubmitResult, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return SubmitResult{}, err
	}
	if a.UserID != caller.ID {
		return SubmitResult{}, ErrForbidden
	}
	if a.Status == AttemptCompleted {
		return SubmitResult{}, ErrAlreadyCompleted
	}
	q, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return SubmitResult{}, err
	}

	byID := make(map[string]Question, len(q.Questions))
	for _, qu := range q.Questions {
		byID[qu.ID] = qu
	}

	var total float64
	graded := []Answer{}
	for _, sub := range answers {
		qu, ok := byID[sub.QuestionID]
		if !ok {
			// Answers to questions no longer on the quiz are skipped, not
			// treated as errors.
			continue
		}
		res := Evaluate(qu, sub)
		graded = append(graded, Answer{
			QuestionID:      qu.ID,
			SelectedOptions: sub.SelectedOptions,
			TextAnswer:      sub.TextAnswer,
			IsCorrect:       res.Correct,
			PointsEarned:    res.Points,
		})
		total += res.Points
	}

	now := s.now().Unix()
	var pct float64
	if a.MaxScore > 0 {
		pct = total / a.MaxScore * 100
	}
	a.Answers = graded
	a.TotalScore = total
	a.PercentageScore = pct
	a.Passed = pct >= q.PassScore
	a.TimeSpent = now - a.StartedAt
	a.Status = AttemptCompleted
	a.CompletedAt = now

	won, err := s.store.CompleteAttempt(ctx, a)
	if err != nil {
		return SubmitResult{}, err
	}
	if !won {
		return SubmitResult{}, ErrAlreadyCompleted
	}

	s.notifier.Notify(q.CreatorID, notify.EventAttemptCompleted, map[string]string{
		"quiz_id": q.ID,
		"student": caller.Name,
		"title":   q.Title,
		"score":   fmt.Sprintf("%.1f", pct),
	})
	return SubmitResult{
		AttemptID:       a.ID,
		TotalScore:      total,
		PercentageScore: pct,
		Passed:          a.Passed,
		TimeSpent:       a.TimeSpent,
	}, nil
}

// Statistics aggregates all attempts of a quiz for its creator.
func (s *Service) Statistics(ctx context.Context, caller auth.Identity, quizID string) (Statistics, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Statistics{}, err
	}
	if q.CreatorID != caller.ID {
		return Statistics{}, ErrForbidden
	}
	attempts, err := s.store.ListAttempts(ctx, quizID)
	if err != nil {
		return Statistics{}, err
	}
	return BuildStatistics(q, attempts), nil
}
