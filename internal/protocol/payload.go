package protocol

// Wire payload shapes. Field sets follow the client contract; every response
// carries an explicit status flag.

// region --- requests ---

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Birthday    string `json:"birthday"`
}

type GetPlayersInRoomRequest struct {
	RoomID string `json:"room_id"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type CreateRoomRequest struct {
	RoomName        string `json:"room_name"`
	MaxPlayers      uint   `json:"max_players"`
	QuestionCount   uint   `json:"question_count"`
	TimePerQuestion uint   `json:"time_per_question"`
}

type UpdateUserDataRequest struct {
	Password    *string `json:"password,omitempty"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number"`
	AvatarColor string  `json:"avatar_color"`
}

type SubmitAnswerRequest struct {
	AnswerID   uint `json:"answer_id"`
	QuestionID uint `json:"question_id"`
}

type SubmitVerificationCodeRequest struct {
	Code string `json:"code"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// endregion

// region --- responses ---

type ErrorResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status bool `json:"status"`
}

type LoginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type SignupResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Player is the public listing of one user.
type Player struct {
	Username    string `json:"username"`
	AvatarColor string `json:"avatar_color"`
	Score       uint   `json:"score"`
}

// RoomData mirrors room metadata on the wire.
type RoomData struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MaxPlayers      uint   `json:"max_players"`
	QuestionCount   uint   `json:"question_count"`
	TimePerQuestion uint   `json:"time_per_question"`
	IsActive        bool   `json:"is_active"`
}

type RoomListing struct {
	Room       RoomData `json:"room"`
	IsFinished bool     `json:"is_finished"`
	Players    []Player `json:"players"`
}

type GetRoomsResponse struct {
	Status bool          `json:"status"`
	Rooms  []RoomListing `json:"rooms"`
}

type GetPlayersInRoomResponse struct {
	Status  bool     `json:"status"`
	Players []Player `json:"players"`
}

type GetHighScoresResponse struct {
	Status     bool     `json:"status"`
	Statistics []Player `json:"statistics"`
}

type UserStatistics struct {
	AvgAnswerTime  *uint `json:"avg_answer_time"`
	CorrectAnswers uint  `json:"correct_answers"`
	WrongAnswers   uint  `json:"wrong_answers"`
	TotalAnswers   uint  `json:"total_answers"`
	TotalGames     uint  `json:"total_games"`
	Score          uint  `json:"score"`
}

type GetPersonalStatsResponse struct {
	Status     bool           `json:"status"`
	Statistics UserStatistics `json:"statistics"`
}

type UserData struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Birthday    string `json:"birthday"`
	AvatarColor string `json:"avatar_color"`
	MemberSince int64  `json:"member_since"`
}

type GetUserDataResponse struct {
	Status     bool           `json:"status"`
	UserData   UserData       `json:"user_data"`
	Statistics UserStatistics `json:"statistics"`
}

type UpdateUserDataResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type GetRoomStateResponse struct {
	Status        bool     `json:"status"`
	HasGameBegun  bool     `json:"has_game_begun"`
	Players       []Player `json:"players"`
	QuestionCount uint     `json:"question_count"`
	AnswerTimeout uint     `json:"answer_timeout"`
	MaxPlayers    uint     `json:"max_players"`
	IsClosed      bool     `json:"is_closed"`
}

type GetQuestionResponse struct {
	Status     bool            `json:"status"`
	QuestionID uint            `json:"question_id"`
	Question   string          `json:"question"`
	Answers    map[uint]string `json:"answers"`
}

type SubmitAnswerResponse struct {
	Status          bool `json:"status"`
	CorrectAnswerID uint `json:"correct_answer_id"`
}

// AnsweredQuestion is one entry of the caller's own answer sheet in the game
// results.
type AnsweredQuestion struct {
	Question        string   `json:"question"`
	Answers         []string `json:"answers"`
	CorrectAnswerID uint     `json:"correct_answer_id"`
	ChosenAnswerID  uint     `json:"chosen_answer_id"`
	AnswerTime      uint     `json:"answer_time"`
}

type PlayerResult struct {
	Username           string `json:"username"`
	AvatarColor        string `json:"avatar_color"`
	IsOnline           bool   `json:"is_online"`
	ScoreChange        int64  `json:"score_change"`
	CorrectAnswerCount uint   `json:"correct_answer_count"`
	WrongAnswerCount   uint   `json:"wrong_answer_count"`
	AvgAnswerTime      uint   `json:"avg_answer_time"`
}

type GetGameResultsResponse struct {
	Status      bool               `json:"status"`
	UserAnswers []AnsweredQuestion `json:"user_answers"`
	Players     []PlayerResult     `json:"players"`
}

type SubmitVerificationCodeResponse struct {
	Status     bool `json:"status"`
	IsVerified bool `json:"is_verified"`
}

// endregion
