package storage

import (
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"triviarena/server/internal/models"
	"triviarena/server/internal/opentdb"
)

// QuestionSource supplies new questions when the local bank runs low.
type QuestionSource interface {
	Fetch(amount int) ([]opentdb.Question, error)
}

// minExtraQuestions keeps the bank comfortably larger than any single game's
// demand so random selection stays varied.
const minExtraQuestions = 20

// GormStore implements Store on a gorm-managed database.
type GormStore struct {
	db      *gorm.DB
	source  QuestionSource
	minPool int
}

// Open connects to the database, runs migrations and ensures the question
// bank holds at least minPool questions.
func Open(dsn string, source QuestionSource, minPool int) (*GormStore, error) {
	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Statistics{}, &models.QuestionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s := &GormStore{db: db, source: source, minPool: minPool}
	s.ensureQuestionPool()
	return s, nil
}

// ensureQuestionPool tops the bank up to the configured minimum. Failures are
// tolerated; FetchQuestions retries the top-up per game anyway.
func (s *GormStore) ensureQuestionPool() {
	var count int64
	if err := s.db.Model(&models.QuestionRecord{}).Count(&count).Error; err != nil {
		return
	}
	if int(count) >= s.minPool {
		return
	}
	questions, err := s.source.Fetch(s.minPool - int(count))
	if err != nil {
		return
	}
	s.storeQuestions(questions)
}

func (s *GormStore) storeQuestions(questions []opentdb.Question) {
	for _, q := range questions {
		rec := models.QuestionRecord{
			Prompt:           q.Prompt,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswer1: q.IncorrectAnswers[0],
			IncorrectAnswer2: q.IncorrectAnswers[1],
			IncorrectAnswer3: q.IncorrectAnswers[2],
		}
		// duplicate prompts violate the unique index; skip them
		s.db.Where(models.QuestionRecord{Prompt: rec.Prompt}).FirstOrCreate(&rec)
	}
}

func (s *GormStore) UserExists(username string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) EmailExists(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) PasswordMatches(username, password string) (bool, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}

func (s *GormStore) CreateUser(u NewUser) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: string(hashed),
		Address:      u.Address,
		PhoneNumber:  u.PhoneNumber,
		Birthday:     u.Birthday,
		AvatarColor:  u.AvatarColor,
		Statistics:   models.Statistics{},
	}
	return s.db.Create(&user).Error
}

func (s *GormStore) DeleteUser(username string) error {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.db.Where("user_id = ?", user.ID).Delete(&models.Statistics{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&user).Error
}

func (s *GormStore) FetchQuestions(n int) ([]QuestionData, error) {
	var count int64
	if err := s.db.Model(&models.QuestionRecord{}).Count(&count).Error; err != nil {
		return nil, err
	}

	// top up from the external source when the surplus would drop below the
	// floor, then select again
	if int(count)-minExtraQuestions < n {
		shortfall := n - (int(count) - minExtraQuestions)
		questions, err := s.source.Fetch(shortfall)
		if err != nil {
			return nil, err
		}
		s.storeQuestions(questions)
	}

	var records []models.QuestionRecord
	if err := s.db.Order("RANDOM()").Limit(n).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) != n {
		return nil, fmt.Errorf("question bank holds only %d of %d requested questions", len(records), n)
	}

	out := make([]QuestionData, len(records))
	for i, r := range records {
		out[i] = QuestionData{
			Prompt:           r.Prompt,
			CorrectAnswer:    r.CorrectAnswer,
			IncorrectAnswers: [3]string{r.IncorrectAnswer1, r.IncorrectAnswer2, r.IncorrectAnswer3},
		}
	}
	return out, nil
}

func (s *GormStore) userWithStats(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Statistics").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserStatistics(username string) (UserStatistics, error) {
	user, err := s.userWithStats(username)
	if err != nil {
		return UserStatistics{}, err
	}
	st := user.Statistics
	return UserStatistics{
		AvgAnswerTime:  st.AvgAnswerTime,
		CorrectAnswers: st.CorrectAnswers,
		WrongAnswers:   st.WrongAnswers,
		TotalAnswers:   st.CorrectAnswers + st.WrongAnswers,
		TotalGames:     st.TotalGames,
		Score:          st.Score,
	}, nil
}

func (s *GormStore) GetTopPlayers(limit int) ([]Player, error) {
	var users []models.User
	err := s.db.Preload("Statistics").
		Joins("JOIN statistics ON statistics.user_id = users.id").
		Order("statistics.score DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	players := make([]Player, len(users))
	for i, u := range users {
		players[i] = Player{Username: u.Username, AvatarColor: u.AvatarColor, Score: u.Statistics.Score}
	}
	return players, nil
}

func (s *GormStore) GetUserProfile(username string) (Profile, error) {
	user, err := s.userWithStats(username)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Username:    user.Username,
		Email:       user.Email,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
		Birthday:    user.Birthday,
		AvatarColor: user.AvatarColor,
		MemberSince: user.CreatedAt,
	}, nil
}

func (s *GormStore) UpdateUserProfile(username string, upd ProfileUpdate) error {
	updates := map[string]any{
		"address":      upd.Address,
		"phone_number": upd.PhoneNumber,
		"avatar_color": upd.AvatarColor,
	}
	if upd.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		updates["password_hash"] = string(hashed)
	}
	return s.db.Model(&models.User{}).Where("username = ?", username).Updates(updates).Error
}

func (s *GormStore) GetPlayerSummary(username string) (Player, error) {
	user, err := s.userWithStats(username)
	if err != nil {
		return Player{}, err
	}
	return Player{Username: user.Username, AvatarColor: user.AvatarColor, Score: user.Statistics.Score}, nil
}

func (s *GormStore) RecordGameResult(res GameResult, username string) error {
	user, err := s.userWithStats(username)
	if err != nil {
		return err
	}
	st := user.Statistics

	gameAnswers := res.CorrectAnswers + res.WrongAnswers
	newAvg := blendAverage(st.AvgAnswerTime, st.CorrectAnswers+st.WrongAnswers, res.AvgAnswerTime, gameAnswers)
	newScore := clampScore(st.Score, res.ScoreChange)

	return s.db.Model(&models.Statistics{}).Where("user_id = ?", user.ID).Updates(map[string]any{
		"total_games":     st.TotalGames + 1,
		"correct_answers": st.CorrectAnswers + res.CorrectAnswers,
		"wrong_answers":   st.WrongAnswers + res.WrongAnswers,
		"avg_answer_time": newAvg,
		"score":           newScore,
	}).Error
}

func (s *GormStore) GetPasswordForRecoveryEmail(email string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}
