package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/quiz"
)

/* ---------------- in-memory fakes satisfying quiz.Store and notify.Notifier ---------------- */

type fakeStore struct {
	quizzes  map[string]quiz.Quiz
	attempts map[string]quiz.Attempt
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quizzes:  map[string]quiz.Quiz{},
		attempts: map[string]quiz.Attempt{},
	}
}

func (s *fakeStore) PutQuiz(_ context.Context, q quiz.Quiz) error {
	s.quizzes[q.ID] = q
	return nil
}

func (s *fakeStore) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return q, nil
}

func (s *fakeStore) ListQuizzes(context.Context) ([]quiz.Quiz, error) {
	out := []quiz.Quiz{}
	for _, q := range s.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (s *fakeStore) InsertAttempt(_ context.Context, a quiz.Attempt) error {
	s.attempts[a.ID] = a
	return nil
}

func (s *fakeStore) GetAttempt(_ context.Context, id string) (quiz.Attempt, error) {
	a, ok := s.attempts[id]
	if !ok {
		return quiz.Attempt{}, quiz.ErrAttemptNotFound
	}
	return a, nil
}

func (s *fakeStore) CompleteAttempt(_ context.Context, a quiz.Attempt) (bool, error) {
	cur, ok := s.attempts[a.ID]
	if !ok || cur.Status != quiz.AttemptInProgress {
		return false, nil
	}
	s.attempts[a.ID] = a
	return true, nil
}

func (s *fakeStore) ListAttempts(_ context.Context, quizID string) ([]quiz.Attempt, error) {
	out := []quiz.Attempt{}
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

type sentEvent struct {
	userID  string
	event   string
	payload interface{}
}

type fakeNotifier struct {
	events []sentEvent
}

func (n *fakeNotifier) Notify(userID, event string, payload interface{}) {
	n.events = append(n.events, sentEvent{userID, event, payload})
}

func (n *fakeNotifier) lastFor(userID string) (sentEvent, bool) {
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].userID == userID {
			return n.events[i], true
		}
	}
	return sentEvent{}, false
}

/* ---------------- fixtures ---------------- */

var (
	teacher = auth.Identity{ID: "t1", Name: "Ms. Rivera", Role: "teacher"}
	student = auth.Identity{ID: "s1", Name: "Ana", Role: "student"}
	other   = auth.Identity{ID: "s2", Name: "Luis", Role: "student"}
)

func mustCreate(t *testing.T, svc *quiz.Service, q quiz.Quiz) quiz.Quiz {
	t.Helper()
	created, err := svc.Create(context.Background(), teacher, q)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func colorQuiz() quiz.Quiz {
	return quiz.Quiz{
		Title:      "Colors",
		AssignedTo: []string{student.ID},
		PassScore:  60,
		Questions: []quiz.Question{{
			Text:   "Pick A",
			Type:   quiz.TypeMultipleChoice,
			Points: 2,
			Options: []quiz.Option{
				{ID: "a", Text: "A", IsCorrect: true},
				{ID: "b", Text: "B"},
				{ID: "c", Text: "C"},
			},
		}},
	}
}

/* ---------------- tests ---------------- */

func TestCreateValidation(t *testing.T) {
	svc := quiz.NewService(newFakeStore(), &fakeNotifier{})
	ctx := context.Background()

	cases := []struct {
		name string
		q    quiz.Quiz
	}{
		{"missing title", quiz.Quiz{}},
		{"question without text", quiz.Quiz{Title: "x", Questions: []quiz.Question{{Type: quiz.TypeLongAnswer}}}},
		{"unknown question type", quiz.Quiz{Title: "x", Questions: []quiz.Question{{Text: "?", Type: "matching"}}}},
		{"choice without correct option", quiz.Quiz{Title: "x", Questions: []quiz.Question{{
			Text: "?", Type: quiz.TypeMultipleChoice,
			Options: []quiz.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		}}}},
		{"true-false with three options", quiz.Quiz{Title: "x", Questions: []quiz.Question{{
			Text: "?", Type: quiz.TypeTrueFalse,
			Options: []quiz.Option{{ID: "a", IsCorrect: true}, {ID: "b"}, {ID: "c"}},
		}}}},
		{"short answer without canonical text", quiz.Quiz{Title: "x", Questions: []quiz.Question{{
			Text: "?", Type: quiz.TypeShortAnswer,
		}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, teacher, tc.q); !errors.Is(err, quiz.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateNotifiesAssignees(t *testing.T) {
	n := &fakeNotifier{}
	svc := quiz.NewService(newFakeStore(), n)

	created := mustCreate(t, svc, colorQuiz())
	ev, ok := n.lastFor(student.ID)
	if !ok {
		t.Fatal("assignee got no notification")
	}
	if ev.event != "newQuiz" {
		t.Fatalf("event = %q, want newQuiz", ev.event)
	}
	payload := ev.payload.(map[string]string)
	if payload["quiz_id"] != created.ID || payload["creator"] != teacher.Name {
		t.Fatalf("payload = %v", payload)
	}
}

func TestStartAttemptAccessAndSanitization(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	if _, err := svc.StartAttempt(ctx, other, created.ID, 1); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("unassigned start err = %v, want ErrForbidden", err)
	}

	res, err := svc.StartAttempt(ctx, student, created.ID, 1)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	a, err := store.GetAttempt(ctx, res.AttemptID)
	if err != nil {
		t.Fatalf("attempt not stored: %v", err)
	}
	if a.MaxScore != 2 || a.Status != quiz.AttemptInProgress {
		t.Fatalf("attempt = %+v", a)
	}
	for _, qu := range res.Questions {
		if qu.CorrectAnswer != "" {
			t.Fatal("correct answer leaked to taker")
		}
		for _, o := range qu.Options {
			if o.IsCorrect {
				t.Fatal("correct option flag leaked to taker")
			}
		}
	}
}

func TestStartAttemptShuffleIsSeeded(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	q := colorQuiz()
	q.Shuffle = true
	for i := 0; i < 9; i++ {
		q.Questions = append(q.Questions, quiz.Question{
			Text: "filler", Type: quiz.TypeLongAnswer,
		})
	}
	created := mustCreate(t, svc, q)
	ctx := context.Background()

	first, err := svc.StartAttempt(ctx, student, created.ID, 42)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	second, err := svc.StartAttempt(ctx, student, created.ID, 42)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	for i := range first.Questions {
		if first.Questions[i].ID != second.Questions[i].ID {
			t.Fatal("same seed produced different orders")
		}
	}
}

func TestSubmitScoresAndNotifiesCreator(t *testing.T) {
	store := newFakeStore()
	n := &fakeNotifier{}
	svc := quiz.NewService(store, n)
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	start, err := svc.StartAttempt(ctx, student, created.ID, 1)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	qid := created.Questions[0].ID
	res, err := svc.Submit(ctx, student, start.AttemptID, []quiz.SubmittedAnswer{
		{QuestionID: qid, SelectedOptions: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.TotalScore != 2 || res.PercentageScore != 100 || !res.Passed {
		t.Fatalf("result = %+v", res)
	}

	ev, ok := n.lastFor(teacher.ID)
	if !ok {
		t.Fatal("creator got no notification")
	}
	if ev.event != "quizAttemptCompleted" {
		t.Fatalf("event = %q", ev.event)
	}
	payload := ev.payload.(map[string]string)
	if payload["student"] != student.Name || payload["score"] != "100.0" {
		t.Fatalf("payload = %v", payload)
	}

	a, _ := store.GetAttempt(ctx, start.AttemptID)
	if a.Status != quiz.AttemptCompleted || a.CompletedAt == 0 {
		t.Fatalf("attempt not finalized: %+v", a)
	}
}

func TestSubmitSupersetScoresZero(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	start, _ := svc.StartAttempt(ctx, student, created.ID, 1)
	qid := created.Questions[0].ID
	res, err := svc.Submit(ctx, student, start.AttemptID, []quiz.SubmittedAnswer{
		{QuestionID: qid, SelectedOptions: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.TotalScore != 0 || res.PercentageScore != 0 || res.Passed {
		t.Fatalf("result = %+v", res)
	}
}

func TestSubmitGuards(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	start, _ := svc.StartAttempt(ctx, student, created.ID, 1)
	qid := created.Questions[0].ID
	answers := []quiz.SubmittedAnswer{{QuestionID: qid, SelectedOptions: []string{"a"}}}

	if _, err := svc.Submit(ctx, other, start.AttemptID, answers); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("foreign submit err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Submit(ctx, student, "nope", answers); !errors.Is(err, quiz.ErrAttemptNotFound) {
		t.Fatalf("missing attempt err = %v, want ErrAttemptNotFound", err)
	}

	if _, err := svc.Submit(ctx, student, start.AttemptID, answers); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	before, _ := store.GetAttempt(ctx, start.AttemptID)

	// Resubmission is rejected and leaves the stored attempt untouched.
	if _, err := svc.Submit(ctx, student, start.AttemptID, nil); !errors.Is(err, quiz.ErrAlreadyCompleted) {
		t.Fatalf("second submit err = %v, want ErrAlreadyCompleted", err)
	}
	after, _ := store.GetAttempt(ctx, start.AttemptID)
	if after.TotalScore != before.TotalScore || after.CompletedAt != before.CompletedAt || len(after.Answers) != len(before.Answers) {
		t.Fatalf("rejected submit mutated attempt: before=%+v after=%+v", before, after)
	}
}

func TestSubmitSkipsUnknownQuestions(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	start, _ := svc.StartAttempt(ctx, student, created.ID, 1)
	res, err := svc.Submit(ctx, student, start.AttemptID, []quiz.SubmittedAnswer{
		{QuestionID: "ghost", SelectedOptions: []string{"a"}},
		{QuestionID: created.Questions[0].ID, SelectedOptions: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	a, _ := store.GetAttempt(ctx, start.AttemptID)
	if len(a.Answers) != 1 {
		t.Fatalf("unknown question produced a record: %+v", a.Answers)
	}
	if res.TotalScore != 2 {
		t.Fatalf("score = %v, want 2", res.TotalScore)
	}
}

func TestSubmitZeroMaxScore(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	ctx := context.Background()

	// A quiz whose questions were all removed after the attempt started.
	store.quizzes["qz"] = quiz.Quiz{ID: "qz", CreatorID: teacher.ID, Title: "Empty", PassScore: 60}
	store.attempts["at"] = quiz.Attempt{
		ID: "at", QuizID: "qz", UserID: student.ID,
		MaxScore: 0, Status: quiz.AttemptInProgress,
	}

	res, err := svc.Submit(ctx, student, "at", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.PercentageScore != 0 || res.Passed {
		t.Fatalf("zero max score: %+v", res)
	}
}

func TestStatisticsCreatorOnly(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	created := mustCreate(t, svc, colorQuiz())
	ctx := context.Background()

	if _, err := svc.Statistics(ctx, student, created.ID); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Statistics(ctx, teacher, "nope"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Statistics(ctx, teacher, created.ID); err != nil {
		t.Fatalf("Statistics: %v", err)
	}
}

func TestListAndGetVisibility(t *testing.T) {
	store := newFakeStore()
	svc := quiz.NewService(store, &fakeNotifier{})
	ctx := context.Background()

	assigned := mustCreate(t, svc, colorQuiz())
	pub := colorQuiz()
	pub.Title = "Public"
	pub.AssignedTo = nil
	pub.IsPublic = true
	mustCreate(t, svc, pub)
	private := colorQuiz()
	private.Title = "Private"
	private.AssignedTo = nil
	mustCreate(t, svc, private)

	list, err := svc.List(ctx, student)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("student sees %d quizzes, want 2", len(list))
	}
	for _, q := range list {
		for _, qu := range q.Questions {
			for _, o := range qu.Options {
				if o.IsCorrect {
					t.Fatal("list leaked correct flags to student")
				}
			}
		}
	}

	if _, err := svc.Get(ctx, other, assigned.ID); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	got, err := svc.Get(ctx, teacher, assigned.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// The creator keeps the answer key.
	if !got.Questions[0].Options[0].IsCorrect {
		t.Fatal("creator view lost correct flags")
	}
}
