package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/elderlango/ReactChat/internal/assignment"
	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/notify"
)

type fakeStore struct {
	items map[string]assignment.Assignment
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]assignment.Assignment{}}
}

func (s *fakeStore) Insert(_ context.Context, a assignment.Assignment) error {
	s.items[a.ID] = a
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (assignment.Assignment, error) {
	a, ok := s.items[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) ListAll(context.Context) ([]assignment.Assignment, error) {
	out := []assignment.Assignment{}
	for _, a := range s.items {
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, a assignment.Assignment) error {
	if _, ok := s.items[a.ID]; !ok {
		return assignment.ErrNotFound
	}
	s.items[a.ID] = a
	return nil
}

type sentEvent struct {
	userID string
	event  string
}

type fakeNotifier struct {
	events []sentEvent
}

func (n *fakeNotifier) Notify(userID, event string, _ interface{}) {
	n.events = append(n.events, sentEvent{userID, event})
}

var (
	teacher = auth.Identity{ID: "t1", Name: "Ms. Rivera", Role: "teacher"}
	student = auth.Identity{ID: "s1", Name: "Ana", Role: "student"}
	other   = auth.Identity{ID: "s2", Name: "Luis", Role: "student"}
)

func essay() assignment.Assignment {
	return assignment.Assignment{
		Title:       "Essay",
		Description: "Write about photosynthesis",
		DueDate:     1700000000,
		AssignedTo:  []string{student.ID},
	}
}

func mustCreate(t *testing.T, svc *assignment.Service, a assignment.Assignment) assignment.Assignment {
	t.Helper()
	created, err := svc.Create(context.Background(), teacher, a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestCreateValidatesAndNotifies(t *testing.T) {
	n := &fakeNotifier{}
	svc := assignment.NewService(newFakeStore(), n)
	ctx := context.Background()

	for name, a := range map[string]assignment.Assignment{
		"missing title":       {Description: "d", DueDate: 1, AssignedTo: []string{"s1"}},
		"missing description": {Title: "t", DueDate: 1, AssignedTo: []string{"s1"}},
		"missing due date":    {Title: "t", Description: "d", AssignedTo: []string{"s1"}},
		"no assignees":        {Title: "t", Description: "d", DueDate: 1},
	} {
		if _, err := svc.Create(ctx, teacher, a); !errors.Is(err, assignment.ErrInvalidInput) {
			t.Fatalf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}

	created := mustCreate(t, svc, essay())
	if created.Status != assignment.StatusActive || created.CreatorID != teacher.ID {
		t.Fatalf("created = %+v", created)
	}
	if created.Submissions == nil {
		t.Fatal("submissions must start as an empty slice")
	}
	if len(n.events) != 1 || n.events[0].userID != student.ID || n.events[0].event != notify.EventNewAssignment {
		t.Fatalf("events = %+v", n.events)
	}
}

func TestListAndGetVisibility(t *testing.T) {
	svc := assignment.NewService(newFakeStore(), &fakeNotifier{})
	ctx := context.Background()
	created := mustCreate(t, svc, essay())

	for ident, want := range map[*auth.Identity]int{&teacher: 1, &student: 1, &other: 0} {
		got, err := svc.List(ctx, *ident)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != want {
			t.Fatalf("%s sees %d assignments, want %d", ident.Name, len(got), want)
		}
	}

	if _, err := svc.Get(ctx, other, created.ID); !errors.Is(err, assignment.ErrForbidden) {
		t.Fatalf("outsider get err = %v", err)
	}
	if _, err := svc.Get(ctx, student, created.ID); err != nil {
		t.Fatalf("assignee get: %v", err)
	}
}

func TestSubmitOnceAndNotify(t *testing.T) {
	n := &fakeNotifier{}
	svc := assignment.NewService(newFakeStore(), n)
	ctx := context.Background()
	created := mustCreate(t, svc, essay())
	n.events = nil

	if _, err := svc.Submit(ctx, student, created.ID, "", nil); !errors.Is(err, assignment.ErrInvalidInput) {
		t.Fatalf("empty content err = %v", err)
	}
	if _, err := svc.Submit(ctx, other, created.ID, "my essay", nil); !errors.Is(err, assignment.ErrForbidden) {
		t.Fatalf("outsider submit err = %v", err)
	}

	a, err := svc.Submit(ctx, student, created.ID, "my essay", []assignment.Attachment{
		{Key: "assignments/x/essay.pdf", OriginalName: "essay.pdf", MimeType: "application/pdf", Size: 1024},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(a.Submissions) != 1 || a.Submissions[0].UserID != student.ID || len(a.Submissions[0].Attachments) != 1 {
		t.Fatalf("submissions = %+v", a.Submissions)
	}
	if len(n.events) != 1 || n.events[0].userID != teacher.ID || n.events[0].event != notify.EventNewSubmission {
		t.Fatalf("events = %+v", n.events)
	}

	if _, err := svc.Submit(ctx, student, created.ID, "again", nil); !errors.Is(err, assignment.ErrAlreadySubmitted) {
		t.Fatalf("resubmit err = %v", err)
	}
}

func TestGradeSubmission(t *testing.T) {
	n := &fakeNotifier{}
	svc := assignment.NewService(newFakeStore(), n)
	ctx := context.Background()
	created := mustCreate(t, svc, essay())
	submitted, err := svc.Submit(ctx, student, created.ID, "my essay", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	subID := submitted.Submissions[0].ID
	n.events = nil

	score := 85.0
	if _, err := svc.GradeSubmission(ctx, teacher, created.ID, subID, nil, ""); !errors.Is(err, assignment.ErrInvalidInput) {
		t.Fatalf("nil score err = %v", err)
	}
	if _, err := svc.GradeSubmission(ctx, student, created.ID, subID, &score, ""); !errors.Is(err, assignment.ErrForbidden) {
		t.Fatalf("non-creator grade err = %v", err)
	}
	if _, err := svc.GradeSubmission(ctx, teacher, created.ID, "nope", &score, ""); !errors.Is(err, assignment.ErrSubmissionNotFound) {
		t.Fatalf("missing submission err = %v", err)
	}

	graded, err := svc.GradeSubmission(ctx, teacher, created.ID, subID, &score, "well done")
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	g := graded.Submissions[0].Grade
	if g == nil || g.Score != 85 || g.Feedback != "well done" || g.GradedAt == 0 {
		t.Fatalf("grade = %+v", g)
	}
	if len(n.events) != 1 || n.events[0].userID != student.ID || n.events[0].event != notify.EventSubmissionGraded {
		t.Fatalf("events = %+v", n.events)
	}

	// A zero score is a real grade, not a missing one.
	zero := 0.0
	if _, err := svc.GradeSubmission(ctx, teacher, created.ID, subID, &zero, "redo"); err != nil {
		t.Fatalf("zero score grade: %v", err)
	}
}

func TestFindAttachmentVisibility(t *testing.T) {
	svc := assignment.NewService(newFakeStore(), &fakeNotifier{})
	ctx := context.Background()

	a := essay()
	a.Attachments = []assignment.Attachment{{Key: "assignments/a/rubric.pdf", OriginalName: "rubric.pdf"}}
	created := mustCreate(t, svc, a)
	if _, err := svc.Submit(ctx, student, created.ID, "essay", []assignment.Attachment{
		{Key: "assignments/a/sub.pdf", OriginalName: "sub.pdf"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Assignment attachment: creator and assignee, not outsiders.
	if _, err := svc.FindAttachment(ctx, student, "assignments/a/rubric.pdf"); err != nil {
		t.Fatalf("assignee rubric: %v", err)
	}
	if _, err := svc.FindAttachment(ctx, other, "assignments/a/rubric.pdf"); !errors.Is(err, assignment.ErrNotFound) {
		t.Fatalf("outsider rubric err = %v", err)
	}

	// Submission attachment: creator and submitter only.
	if _, err := svc.FindAttachment(ctx, teacher, "assignments/a/sub.pdf"); err != nil {
		t.Fatalf("creator submission file: %v", err)
	}
	if _, err := svc.FindAttachment(ctx, student, "assignments/a/sub.pdf"); err != nil {
		t.Fatalf("submitter file: %v", err)
	}
}
