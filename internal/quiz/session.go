package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Session: one interactive quiz run. InProgress holds the current index and
// score; Done flips when the final answer lands. A finished session only
// accepts restart, which is a fresh session.
type Session struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	Index     int        `json:"index"`
	Score     int        `json:"score"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SubmitResult: outcome of one answer submission.
type SubmitResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Index         int    `json:"index"`
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Done          bool   `json:"done"`
}

// NewSession starts a run over a generated question set.
func NewSession(questions []Question) Session {
	now := time.Now()
	return Session{
		ID:        uuid.NewString(),
		Questions: questions,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total returns the question count.
func (s *Session) Total() int { return len(s.Questions) }

// Current returns the question at the cursor, ok=false when the run is
// finished or empty.
func (s *Session) Current() (Question, bool) {
	if s.Done || s.Index >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Index], true
}

// Submit scores an answer against the current question and advances the
// cursor. Submitting into a finished or empty session reports Done without
// touching the score.
func (s *Session) Submit(answer string) SubmitResult {
	total := len(s.Questions)
	if s.Done || s.Index >= total {
		s.Done = true
		return SubmitResult{Index: s.Index, Score: s.Score, Total: total, Done: true}
	}

	question := s.Questions[s.Index]
	correct := answer == question.Answer
	if correct {
		s.Score++
	}

	if s.Index+1 < total {
		s.Index++
	} else {
		s.Index++
		s.Done = true
	}
	s.UpdatedAt = time.Now()

	return SubmitResult{
		Correct:       correct,
		CorrectAnswer: question.Answer,
		Index:         s.Index,
		Score:         s.Score,
		Total:         total,
		Done:          s.Done,
	}
}
