package notify

// Notifier delivers an event to a user's live connections. Delivery is best
// effort: users without an open socket, slow readers and write failures are
// all silently dropped, and callers never block on delivery.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// Event names, as the frontend subscribes to them.
const (
	EventOnlineUsers      = "getOnlineUsers"
	EventNewMessage       = "newMessage"
	EventMessageRead      = "messageRead"
	EventMessageEdited    = "messageEdited"
	EventMessageDeleted   = "messageDeleted"
	EventNewQuiz          = "newQuiz"
	EventAttemptCompleted = "quizAttemptCompleted"
	EventNewAssignment    = "newAssignment"
	EventNewSubmission    = "newSubmission"
	EventSubmissionGraded = "submissionGraded"
)

// Discard is a Notifier that drops everything. Handy default for tests and
// tooling that runs the services without a socket layer.
type Discard struct{}

func (Discard) Notify(string, string, interface{}) {}
