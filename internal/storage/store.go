// Package storage owns persistent state: accounts, lifetime statistics and
// the question bank.
package storage

import "time"

// Player is the public summary of one user.
type Player struct {
	Username    string
	AvatarColor string
	Score       uint
}

// UserStatistics is a user's lifetime tally. AvgAnswerTime is nil before the
// first recorded game.
type UserStatistics struct {
	AvgAnswerTime  *uint
	CorrectAnswers uint
	WrongAnswers   uint
	TotalAnswers   uint
	TotalGames     uint
	Score          uint
}

// Profile is the full account record as shown to its owner.
type Profile struct {
	Username    string
	Email       string
	Address     string
	PhoneNumber string
	Birthday    string
	AvatarColor string
	MemberSince time.Time
}

// ProfileUpdate carries the mutable profile fields; a nil Password leaves the
// current one in place.
type ProfileUpdate struct {
	Password    *string
	Address     string
	PhoneNumber string
	AvatarColor string
}

// NewUser is the payload for account creation.
type NewUser struct {
	Username    string
	Password    string
	Email       string
	Address     string
	PhoneNumber string
	Birthday    string
	AvatarColor string
}

// QuestionData is one raw question bank entry, unshuffled.
type QuestionData struct {
	Prompt           string
	CorrectAnswer    string
	IncorrectAnswers [3]string
}

// GameResult is one player's final tally for a single game, ready to be
// folded into their lifetime statistics.
type GameResult struct {
	CorrectAnswers uint
	WrongAnswers   uint
	AvgAnswerTime  uint
	ScoreChange    int64
}

// Store is the persistence boundary consumed by the managers and session
// handlers.
type Store interface {
	UserExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	PasswordMatches(username, password string) (bool, error)
	CreateUser(u NewUser) error
	DeleteUser(username string) error

	// FetchQuestions returns exactly n random questions, topping up the bank
	// from the external source as a side effect when it runs low.
	FetchQuestions(n int) ([]QuestionData, error)

	GetUserStatistics(username string) (UserStatistics, error)
	GetTopPlayers(limit int) ([]Player, error)
	GetUserProfile(username string) (Profile, error)
	UpdateUserProfile(username string, upd ProfileUpdate) error
	GetPlayerSummary(username string) (Player, error)
	RecordGameResult(res GameResult, username string) error
	GetPasswordForRecoveryEmail(email string) (string, error)
}
