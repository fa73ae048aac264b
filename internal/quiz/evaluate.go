package quiz

import "strings"

// Result is the outcome of evaluating a single answer. Correct is nil when the
// question cannot be auto-graded (long-answer).
type Result struct {
	Correct *bool
	Points  float64
}

type strategyFunc func(q Question, sub SubmittedAnswer) Result

var strategies = map[string]strategyFunc{
	TypeMultipleChoice: evalMultipleChoice,
	TypeTrueFalse:      evalTrueFalse,
	TypeShortAnswer:    evalShortAnswer,
	TypeLongAnswer:     evalLongAnswer,
}

// Evaluate routes by question type. Unknown types score as incorrect.
func Evaluate(q Question, sub SubmittedAnswer) Result {
	if s, ok := strategies[q.Type]; ok {
		return s(q, sub)
	}
	return incorrect()
}

// evalMultipleChoice requires exact set equality between selected option ids
// and the ids flagged correct: no missing correct option, no extra incorrect
// one. No partial credit.
func evalMultipleChoice(q Question, sub SubmittedAnswer) Result {
	if len(sub.SelectedOptions) == 0 {
		return incorrect()
	}
	correct := map[string]struct{}{}
	for _, o := range q.Options {
		if o.IsCorrect {
			correct[o.ID] = struct{}{}
		}
	}
	selected := map[string]struct{}{}
	for _, id := range sub.SelectedOptions {
		selected[id] = struct{}{}
	}
	if len(selected) != len(correct) {
		return incorrect()
	}
	for id := range selected {
		if _, ok := correct[id]; !ok {
			return incorrect()
		}
	}
	return full(q)
}

// evalTrueFalse is multiple-choice restricted to exactly one selection.
func evalTrueFalse(q Question, sub SubmittedAnswer) Result {
	if len(sub.SelectedOptions) != 1 {
		return incorrect()
	}
	for _, o := range q.Options {
		if o.ID == sub.SelectedOptions[0] {
			if o.IsCorrect {
				return full(q)
			}
			return incorrect()
		}
	}
	return incorrect()
}

// evalShortAnswer compares trimmed, lowercased text.
func evalShortAnswer(q Question, sub SubmittedAnswer) Result {
	if strings.TrimSpace(sub.TextAnswer) == "" {
		return incorrect()
	}
	if normalizeText(sub.TextAnswer) == normalizeText(q.CorrectAnswer) {
		return full(q)
	}
	return incorrect()
}

// evalLongAnswer never auto-grades; the answer waits for manual review.
func evalLongAnswer(Question, SubmittedAnswer) Result {
	return Result{Correct: nil, Points: 0}
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func full(q Question) Result {
	t := true
	return Result{Correct: &t, Points: q.Points}
}

func incorrect() Result {
	f := false
	return Result{Correct: &f, Points: 0}
}
