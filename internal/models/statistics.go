package models

import "gorm.io/gorm"

// Statistics accumulates a user's lifetime game results. AvgAnswerTime is nil
// until the first game has been recorded.
type Statistics struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex;not null"`
	TotalGames     uint `gorm:"not null;default:0"`
	CorrectAnswers uint `gorm:"not null;default:0"`
	WrongAnswers   uint `gorm:"not null;default:0"`
	AvgAnswerTime  *uint
	Score          uint `gorm:"not null;default:0;index"`
}
