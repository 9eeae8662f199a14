package protocol

// Kind identifies a request or response on the wire. Requests and their
// responses share the same number; 0 is reserved for error responses.
type Kind byte

const (
	KindError                  Kind = 0
	KindLogin                  Kind = 1
	KindSignup                 Kind = 2
	KindLogout                 Kind = 3
	KindGetRooms               Kind = 4
	KindGetPlayersInRoom       Kind = 5
	KindGetHighScores          Kind = 6
	KindGetPersonalStats       Kind = 7
	KindCreateRoom             Kind = 8
	KindJoinRoom               Kind = 9
	KindGetUserData            Kind = 10
	KindUpdateUserData         Kind = 11
	KindCloseRoom              Kind = 12
	KindStartGame              Kind = 13
	KindGetRoomState           Kind = 14
	KindLeaveRoom              Kind = 15
	KindLeaveGame              Kind = 16
	KindGetQuestion            Kind = 17
	KindSubmitAnswer           Kind = 18
	KindGetGameResults         Kind = 19
	KindSubmitVerificationCode Kind = 20
	KindResendVerificationCode Kind = 21
	KindForgotPassword         Kind = 22

	// KindDisconnect is a synthetic signal for a dropped or departed client.
	// It is never written to the wire; the connection manager feeds it to the
	// session so every state can run its leave cleanup.
	KindDisconnect Kind = 99
)

var validKinds = map[Kind]struct{}{
	KindLogin: {}, KindSignup: {}, KindLogout: {}, KindGetRooms: {},
	KindGetPlayersInRoom: {}, KindGetHighScores: {}, KindGetPersonalStats: {},
	KindCreateRoom: {}, KindJoinRoom: {}, KindGetUserData: {},
	KindUpdateUserData: {}, KindCloseRoom: {}, KindStartGame: {},
	KindGetRoomState: {}, KindLeaveRoom: {}, KindLeaveGame: {},
	KindGetQuestion: {}, KindSubmitAnswer: {}, KindGetGameResults: {},
	KindSubmitVerificationCode: {}, KindResendVerificationCode: {},
	KindForgotPassword: {}, KindDisconnect: {},
}

// Valid reports whether k is a known request kind.
func (k Kind) Valid() bool {
	_, ok := validKinds[k]
	return ok
}
