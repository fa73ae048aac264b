package chat_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/elderlango/ReactChat/internal/chat"
	"github.com/elderlango/ReactChat/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func TestSQLStoreConversation(t *testing.T) {
	store := chat.NewSQLStore(newTestDB(t))
	ctx := context.Background()

	put := func(id, from, to, body string, at int64) {
		t.Helper()
		err := store.Insert(ctx, chat.Message{
			ID: id, SenderID: from, ReceiverID: to, Body: body,
			Status: chat.StatusSent, CreatedAt: at,
		})
		if err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
	}
	put("m1", "u1", "u2", "hola", 100)
	put("m2", "u2", "u1", "hey", 200)
	put("m3", "u1", "u2", "qué tal", 300)
	put("m4", "u1", "u3", "other thread", 150)

	conv, err := store.Conversation(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if len(conv) != 3 {
		t.Fatalf("conversation = %d messages, want 3", len(conv))
	}
	// Both directions, oldest first.
	for i, want := range []string{"m1", "m2", "m3"} {
		if conv[i].ID != want {
			t.Fatalf("order: got %s at %d, want %s", conv[i].ID, i, want)
		}
	}

	// Same thread regardless of which side asks.
	flipped, err := store.Conversation(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("Conversation flipped: %v", err)
	}
	if len(flipped) != 3 {
		t.Fatalf("flipped conversation = %d messages, want 3", len(flipped))
	}
}

func TestSQLStoreGetAndUpdate(t *testing.T) {
	store := chat.NewSQLStore(newTestDB(t))
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, chat.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	m := chat.Message{
		ID: "m1", SenderID: "u1", ReceiverID: "u2",
		Body: "hola", Status: chat.StatusSent, CreatedAt: 100,
	}
	if err := store.Insert(ctx, m); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	m.Body = ""
	m.Status = chat.StatusRead
	m.Edited = true
	m.Deleted = true
	if err := store.Update(ctx, m); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != chat.StatusRead || !got.Edited || !got.Deleted || got.Body != "" {
		t.Fatalf("updated message = %+v", got)
	}
}
