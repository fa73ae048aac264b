package assignment

import (
	"context"
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
	return &Service{store: store, notifier: notifier, now: time.Now, newID: uuid.NewString}
}

// Create stores a new assignment and notifies every assignee. Attachments are
// already uploaded by the request layer; only their metadata arrives here.
func (s *Service) Create(ctx context.Context, caller auth.Identity, a Assignment) (Assignment, error) {
	if a.Title == "" || a.Description == "" || a.DueDate == 0 || len(a.AssignedTo) == 0 {
		return Assignment{}, ErrInvalidInput
	}
	a.ID = s.newID()
	a.CreatorID = caller.ID
	a.Submissions = []Submission{}
	a.Status = StatusActive
	a.CreatedAt = s.now().Unix()
	if err := s.store.Insert(ctx, a); err != nil {
		return Assignment{}, err
	}
	for _, userID := range a.AssignedTo {
		s.notifier.Notify(userID, notify.EventNewAssignment, map[string]string{
			"assignment_id": a.ID,
			"creator":       caller.Name,
			"title":         a.Title,
		})
	}
	return a, nil
}

// List returns assignments the caller created or is assigned to.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]Assignment, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []Assignment{}
	for _, a := range all {
		if a.CreatorID == caller.ID || a.assignedTo(caller.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Identity, id string) (Assignment, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if a.CreatorID != caller.ID && !a.assignedTo(caller.ID) {
		return Assignment{}, ErrForbidden
	}
	return a, nil
}

// Submit records the caller's one submission and notifies the creator.
func (s *Service) Submit(ctx context.Context, caller auth.Identity, id, content string, attachments []Attachment) (Assignment, error) {
	if content == "" {
		return Assignment{}, ErrInvalidInput
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if !a.assignedTo(caller.ID) {
		return Assignment{}, ErrForbidden
	}
	if a.submissionBy(caller.ID) != nil {
		return Assignment{}, ErrAlreadySubmitted
	}
	a.Submissions = append(a.Submissions, Submission{
		ID:          s.newID(),
		UserID:      caller.ID,
		Content:     content,
		Attachments: attachments,
		SubmittedAt: s.now().Unix(),
	})
	if err := s.store.Update(ctx, a); err != nil {
		return Assignment{}, err
	}
	s.notifier.Notify(a.CreatorID, notify.EventNewSubmission, map[string]string{
		"assignment_id": a.ID,
		"student":       caller.Name,
		"title":         a.Title,
	})
	return a, nil
}

// FindAttachment resolves a blob key to attachment metadata, honoring
// visibility: assignment attachments for creator and assignees, submission
// attachments for the creator and the submitter.
func (s *Service) FindAttachment(ctx context.Context, caller auth.Identity, key string) (Attachment, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return Attachment{}, err
	}
	for _, a := range all {
		if a.CreatorID != caller.ID && !a.assignedTo(caller.ID) {
			continue
		}
		for _, att := range a.Attachments {
			if att.Key == key {
				return att, nil
			}
		}
		for _, sub := range a.Submissions {
			if a.CreatorID != caller.ID && sub.UserID != caller.ID {
				continue
			}
			for _, att := range sub.Attachments {
				if att.Key == key {
					return att, nil
				}
			}
		}
	}
	return Attachment{}, ErrNotFound
}

// GradeSubmission sets the grade on one submission. Creator only.
func (s *Service) GradeSubmission(ctx context.Context, caller auth.Identity, id, submissionID string, score *float64, feedback string) (Assignment, error) {
	if score == nil {
		return Assignment{}, ErrInvalidInput
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if a.CreatorID != caller.ID {
		return Assignment{}, ErrForbidden
	}
	var sub *Submission
	for i := range a.Submissions {
		if a.Submissions[i].ID == submissionID {
			sub = &a.Submissions[i]
			break
		}
	}
	if sub == nil {
		return Assignment{}, ErrSubmissionNotFound
	}
	sub.Grade = &Grade{Score: *score, Feedback: feedback, GradedAt: s.now().Unix()}
	if err := s.store.Update(ctx, a); err != nil {
		return Assignment{}, err
	}
	s.notifier.Notify(sub.UserID, notify.EventSubmissionGraded, map[string]interface{}{
		"assignment_id": a.ID,
		"title":         a.Title,
		"score":         *score,
	})
	return a, nil
}
