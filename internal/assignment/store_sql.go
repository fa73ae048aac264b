package assignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Store interface {
	Insert(ctx context.Context, a Assignment) error
	GetByID(ctx context.Context, id string) (Assignment, error)
	ListAll(ctx context.Context) ([]Assignment, error)
	Update(ctx context.Context, a Assignment) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, a Assignment) error {
	assigned, attachments, submissions, err := marshalParts(a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (id,creator_id,title,description,due_date,assigned_json,attachments_json,submissions_json,status,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.CreatorID, a.Title, a.Description, a.DueDate,
		assigned, attachments, submissions, a.Status, a.CreatedAt)
	return err
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,creator_id,title,description,due_date,assigned_json,attachments_json,submissions_json,status,created_at
		 FROM assignments WHERE id=$1`, id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	return a, err
}

// ListAll returns every assignment; the service filters by viewer. Cohorts
// are small, a full scan is fine.
func (s *SQLStore) ListAll(ctx context.Context) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,creator_id,title,description,due_date,assigned_json,attachments_json,submissions_json,status,created_at
		 FROM assignments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Update(ctx context.Context, a Assignment) error {
	assigned, attachments, submissions, err := marshalParts(a)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE assignments SET title=$1,description=$2,due_date=$3,assigned_json=$4,attachments_json=$5,submissions_json=$6,status=$7
		 WHERE id=$8`,
		a.Title, a.Description, a.DueDate, assigned, attachments, submissions, a.Status, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalParts(a Assignment) (assigned, attachments, submissions string, err error) {
	aj, err := json.Marshal(a.AssignedTo)
	if err != nil {
		return "", "", "", err
	}
	tj, err := json.Marshal(a.Attachments)
	if err != nil {
		return "", "", "", err
	}
	sj, err := json.Marshal(a.Submissions)
	if err != nil {
		return "", "", "", err
	}
	return string(aj), string(tj), string(sj), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (Assignment, error) {
	var a Assignment
	var assigned, attachments, submissions string
	err := row.Scan(&a.ID, &a.CreatorID, &a.Title, &a.Description, &a.DueDate,
		&assigned, &attachments, &submissions, &a.Status, &a.CreatedAt)
	if err != nil {
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(assigned), &a.AssignedTo); err != nil {
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(attachments), &a.Attachments); err != nil {
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(submissions), &a.Submissions); err != nil {
		return Assignment{}, err
	}
	return a, nil
}
