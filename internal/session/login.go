package session

import (
	"math/rand"
	"time"

	"triviarena/server/internal/mail"
	"triviarena/server/internal/protocol"
	"triviarena/server/internal/storage"
	"triviarena/server/internal/validate"
	"triviarena/server/pkg/token"
)

var avatarColors = []string{"red", "orange", "yellow", "green", "blue", "purple", "pink"}

func randomAvatarColor() string {
	return avatarColors[rand.Intn(len(avatarColors))]
}

func (s *Session) handleUnauthenticated(req protocol.Request) Result {
	switch req.Kind {
	case protocol.KindLogin:
		return s.login(req)
	case protocol.KindSignup:
		return s.signup(req)
	case protocol.KindForgotPassword:
		return s.forgotPassword(req)
	case protocol.KindDisconnect:
		// nothing to release before authentication
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrNotAuthorized, ""))
	}
}

func (s *Session) login(req protocol.Request) Result {
	var body protocol.LoginRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	exists, err := s.deps.Store.UserExists(body.Username)
	if err != nil {
		return s.failStorage(err)
	}
	if !exists {
		return Result{Kind: protocol.KindLogin, Payload: protocol.LoginResponse{Status: false, Message: "User does not exist"}}
	}

	match, err := s.deps.Store.PasswordMatches(body.Username, body.Password)
	if err != nil {
		return s.failStorage(err)
	}
	if !match {
		return Result{Kind: protocol.KindLogin, Payload: protocol.LoginResponse{Status: false, Message: "Password does not match"}}
	}

	if !s.deps.Logins.TryAdd(body.Username) {
		return Result{Kind: protocol.KindLogin, Payload: protocol.LoginResponse{Status: false, Message: "User already logged in"}}
	}

	s.username = body.Username
	s.state = StateMenu
	s.deps.Log.Info("user logged in", "endpoint", s.endpoint, "username", body.Username)
	return Result{Kind: protocol.KindLogin, Payload: protocol.LoginResponse{Status: true}}
}

func (s *Session) signup(req protocol.Request) Result {
	var body protocol.SignupRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	if err := validate.Signup(body.Username, body.Password, body.Email, body.Address, body.PhoneNumber, body.Birthday); err != nil {
		return Result{Kind: protocol.KindSignup, Payload: protocol.SignupResponse{Status: false, Message: err.Error()}}
	}

	if taken, err := s.deps.Store.UserExists(body.Username); err != nil {
		return s.failStorage(err)
	} else if taken {
		return Result{Kind: protocol.KindSignup, Payload: protocol.SignupResponse{Status: false, Message: "Username already exists"}}
	}
	if taken, err := s.deps.Store.EmailExists(body.Email); err != nil {
		return s.failStorage(err)
	} else if taken {
		return Result{Kind: protocol.KindSignup, Payload: protocol.SignupResponse{Status: false, Message: "Email already exists"}}
	}

	if err := s.deps.Store.CreateUser(storage.NewUser{
		Username:    body.Username,
		Password:    body.Password,
		Email:       body.Email,
		Address:     body.Address,
		PhoneNumber: body.PhoneNumber,
		Birthday:    body.Birthday,
		AvatarColor: randomAvatarColor(),
	}); err != nil {
		return s.failStorage(err)
	}

	s.deps.Logins.TryAdd(body.Username)

	code := mail.GenerateCode()
	if err := s.deps.Mail.SendVerificationEmail(body.Email, code, body.Username); err != nil {
		// abort the signup: the account cannot be verified
		s.deps.Log.Error("failed to send verification email", "endpoint", s.endpoint, "username", body.Username, "err", err)
		s.scrubUnverified(body.Username)
		return s.fail(protocol.E(protocol.ErrExternal, "Failed to send verification email"))
	}
	s.deps.Log.Info("verification email sent", "endpoint", s.endpoint, "username", body.Username)

	s.username = body.Username
	s.email = body.Email
	s.code = code
	s.tries = 0
	s.state = StateAwaitingVerification
	return Result{Kind: protocol.KindSignup, Payload: protocol.SignupResponse{Status: true}}
}

func (s *Session) forgotPassword(req protocol.Request) Result {
	var body protocol.ForgotPasswordRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	secret, err := s.deps.Store.GetPasswordForRecoveryEmail(body.Email)
	if err != nil {
		// unknown email: report failure without leaking which addresses exist
		s.deps.Log.Warn("password recovery for unknown email", "endpoint", s.endpoint, "email", body.Email)
		return Result{Kind: protocol.KindForgotPassword, Payload: protocol.StatusResponse{Status: false}}
	}

	recovery, tokenErr := token.Generate(s.deps.TokenSecret, secret, time.Hour)
	if tokenErr != nil {
		return s.fail(protocol.E(protocol.ErrUnknown, "Failed to build recovery secret"))
	}

	if err := s.deps.Mail.SendPasswordRecoveryEmail(body.Email, recovery); err != nil {
		s.deps.Log.Error("failed to send recovery email", "endpoint", s.endpoint, "err", err)
		return Result{Kind: protocol.KindForgotPassword, Payload: protocol.StatusResponse{Status: false}}
	}
	s.deps.Log.Info("password recovery email sent", "endpoint", s.endpoint, "email", body.Email)
	return Result{Kind: protocol.KindForgotPassword, Payload: protocol.StatusResponse{Status: true}}
}

// scrubUnverified removes the half-created account and its login claim.
func (s *Session) scrubUnverified(username string) {
	if err := s.deps.Store.DeleteUser(username); err != nil {
		s.deps.Log.Error("failed to remove unverified user", "endpoint", s.endpoint, "username", username, "err", err)
	}
	s.deps.Logins.Remove(username)
}
