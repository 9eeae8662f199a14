package models

import "gorm.io/gorm"

// QuestionRecord is one entry of the question bank: a prompt with its correct
// answer and three distractors, stored unshuffled.
type QuestionRecord struct {
	gorm.Model
	Prompt           string `gorm:"size:1024;unique;not null"`
	CorrectAnswer    string `gorm:"size:512;not null"`
	IncorrectAnswer1 string `gorm:"size:512;not null"`
	IncorrectAnswer2 string `gorm:"size:512;not null"`
	IncorrectAnswer3 string `gorm:"size:512;not null"`
}
