package session

import (
	"triviarena/server/internal/mail"
	"triviarena/server/internal/protocol"
)

// maxVerificationTries bounds code guessing; exhausting it scrubs the
// unverified account.
const maxVerificationTries = 5

func (s *Session) handleVerification(req protocol.Request) Result {
	switch req.Kind {
	case protocol.KindSubmitVerificationCode:
		return s.submitVerificationCode(req)
	case protocol.KindResendVerificationCode:
		return s.resendVerificationCode()
	case protocol.KindDisconnect:
		// an aborted signup leaves no account behind
		s.scrubUnverified(s.username)
		s.username = ""
		s.state = StateUnauthenticated
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrNotAuthorized, ""))
	}
}

func (s *Session) submitVerificationCode(req protocol.Request) Result {
	var body protocol.SubmitVerificationCodeRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	s.tries++
	if body.Code == s.code {
		s.deps.Log.Info("verification code accepted", "endpoint", s.endpoint, "username", s.username)
		s.state = StateMenu
		return Result{
			Kind:    protocol.KindSubmitVerificationCode,
			Payload: protocol.SubmitVerificationCodeResponse{Status: true, IsVerified: true},
		}
	}

	if s.tries >= maxVerificationTries {
		s.deps.Log.Info("verification tries exhausted", "endpoint", s.endpoint, "username", s.username)
		s.scrubUnverified(s.username)
		s.username = ""
		s.state = StateUnauthenticated
		return Result{
			Kind:    protocol.KindSubmitVerificationCode,
			Payload: protocol.SubmitVerificationCodeResponse{Status: false, IsVerified: false},
		}
	}

	s.deps.Log.Info("incorrect verification code", "endpoint", s.endpoint, "username", s.username)
	return Result{
		Kind:    protocol.KindSubmitVerificationCode,
		Payload: protocol.SubmitVerificationCodeResponse{Status: true, IsVerified: false},
	}
}

func (s *Session) resendVerificationCode() Result {
	code := mail.GenerateCode()
	if err := s.deps.Mail.SendVerificationEmail(s.email, code, s.username); err != nil {
		s.deps.Log.Error("failed to resend verification code", "endpoint", s.endpoint, "username", s.username, "err", err)
		return Result{Kind: protocol.KindResendVerificationCode, Payload: protocol.StatusResponse{Status: false}}
	}

	s.code = code
	s.deps.Log.Info("verification code resent", "endpoint", s.endpoint, "username", s.username)
	return Result{Kind: protocol.KindResendVerificationCode, Payload: protocol.StatusResponse{Status: true}}
}
