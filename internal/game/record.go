package game

import "math"

// Scoring constants. Tunable policy, not architecture.
const (
	CorrectPoints = 30
	WrongPoints   = 10
	PenaltyPoints = 20
)

// NoAnswerIndex is the sentinel choice meaning "did not answer"; real choices
// are 0..3.
const NoAnswerIndex = 4

// Answer is one recorded submission: the chosen index and the seconds
// consumed out of the answer window.
type Answer struct {
	Chosen uint
	Time   uint
}

// PlayerRecord tracks one player's performance within a single game. Every
// question starts with a "wrong, slowest" placeholder that an actual
// submission overwrites.
type PlayerRecord struct {
	Punished  bool
	Persisted bool
	Answers   []Answer
}

func newPlayerRecord(questionCount int, timePerQuestion uint) *PlayerRecord {
	answers := make([]Answer, questionCount)
	for i := range answers {
		answers[i] = Answer{Chosen: NoAnswerIndex, Time: timePerQuestion}
	}
	return &PlayerRecord{Answers: answers}
}

// CorrectCount counts answers matching the question's correct index.
func (r *PlayerRecord) CorrectCount(questions []Question) uint {
	var n uint
	for i, a := range r.Answers {
		if a.Chosen == questions[i].CorrectIndex {
			n++
		}
	}
	return n
}

// WrongCount is every answer that is not correct, placeholders included.
func (r *PlayerRecord) WrongCount(questions []Question) uint {
	return uint(len(r.Answers)) - r.CorrectCount(questions)
}

// AverageAnswerTime is the mean recorded time across all questions;
// unanswered questions count as maximally slow.
func (r *PlayerRecord) AverageAnswerTime() uint {
	if len(r.Answers) == 0 {
		return 0
	}
	var sum uint
	for _, a := range r.Answers {
		sum += a.Time
	}
	return uint(math.Round(float64(sum) / float64(len(r.Answers))))
}

// ScoreChange computes this game's score delta:
//
//	round(correct*CorrectPoints / (avgTime/T)) - wrong*WrongPoints
//
// minus the penalty when the player abandoned the game. A player who never
// answered has avgTime == T, degenerating the first term to zero.
func (r *PlayerRecord) ScoreChange(questions []Question, timePerQuestion uint) int64 {
	correct := r.CorrectCount(questions)
	wrong := r.WrongCount(questions)

	avg := r.AverageAnswerTime()
	if avg == 0 {
		// an all-instant sheet would divide by zero; floor the average at one
		avg = 1
	}

	delta := int64(math.Round(float64(correct*CorrectPoints)/(float64(avg)/float64(timePerQuestion)))) -
		int64(wrong)*WrongPoints
	if r.Punished {
		delta -= PenaltyPoints
	}
	return delta
}

// clone returns a deep copy safe to hand outside the game's locks.
func (r *PlayerRecord) clone() *PlayerRecord {
	return &PlayerRecord{
		Punished:  r.Punished,
		Persisted: r.Persisted,
		Answers:   append([]Answer(nil), r.Answers...),
	}
}
