package quiz

import "context"

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)

	InsertAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)

	// CompleteAttempt persists the scored attempt only while it is still
	// in-progress (conditional update). Returns false when another submit
	// already won the race.
	CompleteAttempt(ctx context.Context, a Attempt) (bool, error)

	ListAttempts(ctx context.Context, quizID string) ([]Attempt, error)
}
