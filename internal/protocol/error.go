package protocol

// ErrKind classifies a failure for logging and client translation.
type ErrKind int

const (
	ErrUnknown ErrKind = iota
	ErrStorage
	ErrInvalidRequest
	ErrTransport
	ErrDisconnected
	ErrBadSignupCredentials
	ErrBadLoginCredentials
	ErrDecode
	ErrNotFound
	ErrAlreadyExists
	ErrNotAuthorized
	ErrNotImplemented
	ErrExternal
	ErrRoomFull
	ErrNotEnoughPlayers
)

var errMessages = map[ErrKind]string{
	ErrUnknown:              "Unknown error",
	ErrStorage:              "Database error",
	ErrInvalidRequest:       "Invalid request",
	ErrTransport:            "Socket error",
	ErrDisconnected:         "Client disconnected",
	ErrBadSignupCredentials: "Invalid signup credentials",
	ErrBadLoginCredentials:  "Invalid login credentials",
	ErrDecode:               "Deserialization error",
	ErrNotFound:             "Not found",
	ErrAlreadyExists:        "Already exists",
	ErrNotAuthorized:        "User not authorized",
	ErrNotImplemented:       "Not implemented",
	ErrExternal:             "External service error",
	ErrRoomFull:             "Room is full",
	ErrNotEnoughPlayers:     "Not enough players in room",
}

// Error is a tagged failure carried from the registries and handlers up to
// the connection loop, where it becomes an error response.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// E builds an Error; with no message the kind's default message is used.
func E(kind ErrKind, message string) *Error {
	if message == "" {
		message = errMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}
