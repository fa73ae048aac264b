package quiz

type QuestionStat struct {
	QuestionID     string  `json:"question_id"`
	Text           string  `json:"text"` // truncated for compact display
	Type           string  `json:"type"`
	TotalAnswers   int     `json:"total_answers"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

type AttemptSummary struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Score       float64 `json:"score"`
	Passed      bool    `json:"passed"`
	CompletedAt int64   `json:"completed_at,omitempty"`
	TimeSpent   int64   `json:"time_spent"`
	Status      string  `json:"status"`
}

type Statistics struct {
	TotalAttempts     int              `json:"total_attempts"`
	CompletedAttempts int              `json:"completed_attempts"`
	AverageScore      float64          `json:"average_score"`
	PassRate          float64          `json:"pass_rate"`
	AverageTime       float64          `json:"average_time"`
	QuestionStats     []QuestionStat   `json:"question_stats"`
	Attempts          []AttemptSummary `json:"attempts"`
}

const questionTextLimit = 50

// BuildStatistics computes creator-facing aggregates over every attempt of a
// quiz, any status. Averages divide by max(completedAttempts, 1) so a quiz
// without completions reports zeros instead of NaN.
func BuildStatistics(q Quiz, attempts []Attempt) Statistics {
	stats := Statistics{
		TotalAttempts: len(attempts),
		QuestionStats: []QuestionStat{},
		Attempts:      []AttemptSummary{},
	}

	var scoreSum, timeSum float64
	var passedCount int
	for _, a := range attempts {
		if a.Status == AttemptCompleted {
			stats.CompletedAttempts++
		}
		scoreSum += a.PercentageScore
		timeSum += float64(a.TimeSpent)
		if a.Passed {
			passedCount++
		}
		stats.Attempts = append(stats.Attempts, AttemptSummary{
			ID:          a.ID,
			UserID:      a.UserID,
			Score:       a.PercentageScore,
			Passed:      a.Passed,
			CompletedAt: a.CompletedAt,
			TimeSpent:   a.TimeSpent,
			Status:      a.Status,
		})
	}

	denom := float64(maxInt(stats.CompletedAttempts, 1))
	stats.AverageScore = scoreSum / denom
	stats.PassRate = float64(passedCount) / denom * 100
	stats.AverageTime = timeSum / denom

	for _, qu := range q.Questions {
		qs := QuestionStat{
			QuestionID: qu.ID,
			Text:       truncate(qu.Text, questionTextLimit),
			Type:       qu.Type,
		}
		for _, a := range attempts {
			for _, ans := range a.Answers {
				if ans.QuestionID != qu.ID {
					continue
				}
				qs.TotalAnswers++
				if ans.IsCorrect != nil && *ans.IsCorrect {
					qs.CorrectAnswers++
				}
			}
		}
		qs.Accuracy = float64(qs.CorrectAnswers) / float64(maxInt(qs.TotalAnswers, 1)) * 100
		stats.QuestionStats = append(stats.QuestionStats, qs)
	}
	return stats
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
