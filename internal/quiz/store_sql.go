package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(q.AssignedTo)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,creator_id,title,description,questions_json,assigned_json,time_limit_min,is_public,pass_score,shuffle,status,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, description=EXCLUDED.description,
		   questions_json=EXCLUDED.questions_json, assigned_json=EXCLUDED.assigned_json,
		   time_limit_min=EXCLUDED.time_limit_min, is_public=EXCLUDED.is_public,
		   pass_score=EXCLUDED.pass_score, shuffle=EXCLUDED.shuffle, status=EXCLUDED.status`,
		q.ID, q.CreatorID, q.Title, q.Description, string(qj), string(aj),
		q.TimeLimitMin, q.IsPublic, q.PassScore, q.Shuffle, q.Status, q.CreatedAt)
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,creator_id,title,description,questions_json,assigned_json,time_limit_min,is_public,pass_score,shuffle,status,created_at
		 FROM quizzes WHERE id=$1`, id)
	q, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	return q, err
}

// ListQuizzes returns every quiz; visibility filtering happens in the service.
// Cohorts are small, a full scan is fine.
func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,creator_id,title,description,questions_json,assigned_json,time_limit_min,is_public,pass_score,shuffle,status,created_at
		 FROM quizzes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var q Quiz
	var qjson, ajson string
	err := row.Scan(&q.ID, &q.CreatorID, &q.Title, &q.Description, &qjson, &ajson,
		&q.TimeLimitMin, &q.IsPublic, &q.PassScore, &q.Shuffle, &q.Status, &q.CreatedAt)
	if err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &q.AssignedTo); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id,quiz_id,user_id,answers_json,max_score,total_score,percentage_score,passed,time_spent,status,started_at,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.QuizID, a.UserID, string(aj), a.MaxScore, a.TotalScore,
		a.PercentageScore, a.Passed, a.TimeSpent, a.Status, a.StartedAt, a.CompletedAt)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,user_id,answers_json,max_score,total_score,percentage_score,passed,time_spent,status,started_at,completed_at
		 FROM quiz_attempts WHERE id=$1`, id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, err
}

// CompleteAttempt is the single-writer gate for scoring: the update only
// applies while the row is still in-progress, so a concurrent double submit
// loses cleanly.
func (s *SQLStore) CompleteAttempt(ctx context.Context, a Attempt) (bool, error) {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE quiz_attempts
		 SET answers_json=$1,total_score=$2,percentage_score=$3,passed=$4,time_spent=$5,status=$6,completed_at=$7
		 WHERE id=$8 AND status=$9`,
		string(aj), a.TotalScore, a.PercentageScore, a.Passed, a.TimeSpent,
		AttemptCompleted, a.CompletedAt, a.ID, AttemptInProgress)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, quizID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,user_id,answers_json,max_score,total_score,percentage_score,passed,time_spent,status,started_at,completed_at
		 FROM quiz_attempts WHERE quiz_id=$1 ORDER BY started_at, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var ajson string
	err := row.Scan(&a.ID, &a.QuizID, &a.UserID, &ajson, &a.MaxScore, &a.TotalScore,
		&a.PercentageScore, &a.Passed, &a.TimeSpent, &a.Status, &a.StartedAt, &a.CompletedAt)
	if err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
		return Attempt{}, err
	}
	return a, nil
}
