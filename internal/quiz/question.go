// Package quiz generates trivia questions from the derived archive facts
// and runs the interactive answer session.
package quiz

import (
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
)

// QuestionKind separates the fixed fact questions from sampled quotes.
type QuestionKind string

// KindFact is the question kind constant list.
const (
	KindFact  QuestionKind = "fact"
	KindQuote QuestionKind = "quote"
)

// Question: one prompt with its candidate answers. Answer stays server-side;
// clients only ever see a View.
type Question struct {
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options"`
	Answer  string       `json:"answer"`
}

// View: the client-facing shape of a question. Options are shuffled fresh
// on every presentation so the answer position never leaks.
type View struct {
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options"`
}

// Present builds the view with a per-call option order.
func (q Question) Present(rng *randx.LockedRand) View {
	options := append([]string(nil), q.Options...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return View{Kind: q.Kind, Prompt: q.Prompt, Options: options}
}
