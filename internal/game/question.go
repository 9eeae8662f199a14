// Package game runs trivia games: shuffled questions, the time-gated answer
// release, scoring, and the registry of in-progress games.
package game

import (
	"math/rand"

	"triviarena/server/internal/storage"
)

// Question is one trivia question with its choices shuffled. Immutable after
// creation.
type Question struct {
	Prompt       string
	Answers      []string
	CorrectIndex uint
}

// NewQuestion shuffles the four choices and records where the correct answer
// landed.
func NewQuestion(data storage.QuestionData) Question {
	answers := []string{
		data.CorrectAnswer,
		data.IncorrectAnswers[0],
		data.IncorrectAnswers[1],
		data.IncorrectAnswers[2],
	}
	rand.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	var correct uint
	for i, a := range answers {
		if a == data.CorrectAnswer {
			correct = uint(i)
			break
		}
	}
	return Question{Prompt: data.Prompt, Answers: answers, CorrectIndex: correct}
}
