package chat

import (
	"context"
	"database/sql"
	"errors"
)

type Store interface {
	Insert(ctx context.Context, m Message) error
	GetByID(ctx context.Context, id string) (Message, error)
	Conversation(ctx context.Context, userA, userB string) ([]Message, error)
	Update(ctx context.Context, m Message) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id,sender_id,receiver_id,body,image,status,edited,deleted,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.SenderID, m.ReceiverID, m.Body, m.Image, m.Status, m.Edited, m.Deleted, m.CreatedAt)
	return err
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (Message, error) {
	var m Message
	err := s.db.QueryRowContext(ctx,
		`SELECT id,sender_id,receiver_id,body,image,status,edited,deleted,created_at
		 FROM messages WHERE id=$1`, id).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Image, &m.Status, &m.Edited, &m.Deleted, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

func (s *SQLStore) Conversation(ctx context.Context, userA, userB string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,sender_id,receiver_id,body,image,status,edited,deleted,created_at
		 FROM messages
		 WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
		 ORDER BY created_at, id`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Image, &m.Status, &m.Edited, &m.Deleted, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) Update(ctx context.Context, m Message) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET body=$1,image=$2,status=$3,edited=$4,deleted=$5 WHERE id=$6`,
		m.Body, m.Image, m.Status, m.Edited, m.Deleted, m.ID)
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
