package session

import (
	"context"

	"triviarena/server/internal/game"
	"triviarena/server/internal/protocol"
)

func (s *Session) handleInGame(ctx context.Context, req protocol.Request) Result {
	g, gerr := s.deps.Games.Get(s.gameID)
	if gerr != nil {
		// the game settled and was dropped while this session was still
		// attached; leaving must still work or the session is stuck here
		switch req.Kind {
		case protocol.KindLeaveGame:
			return s.leaveGame(nil)
		case protocol.KindDisconnect:
			s.deps.Log.Info("player disconnected from dropped game", "endpoint", s.endpoint, "username", s.username, "game_id", s.gameID)
			s.leaveGame(nil)
			s.logout()
			return Result{}
		default:
			return s.fail(gerr)
		}
	}

	switch req.Kind {
	case protocol.KindGetQuestion:
		return s.getQuestion(g)
	case protocol.KindSubmitAnswer:
		return s.submitAnswer(ctx, g, req)
	case protocol.KindGetGameResults:
		return s.getGameResults(g)
	case protocol.KindLeaveGame:
		return s.leaveGame(g)
	case protocol.KindDisconnect:
		s.deps.Log.Info("player disconnected mid-game", "endpoint", s.endpoint, "username", s.username, "game_id", s.gameID)
		s.leaveGame(g)
		s.logout()
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrInvalidRequest, ""))
	}
}

func (s *Session) getQuestion(g *game.Game) Result {
	idx, q, err := g.CurrentQuestion()
	if err != nil {
		return s.fail(err)
	}

	answers := make(map[uint]string, len(q.Answers))
	for i, a := range q.Answers {
		answers[uint(i)] = a
	}
	return Result{Kind: protocol.KindGetQuestion, Payload: protocol.GetQuestionResponse{
		Status:     true,
		QuestionID: idx,
		Question:   q.Prompt,
		Answers:    answers,
	}}
}

// submitAnswer blocks until the question's release instant; the response
// carrying the correct answer is what ends the question for this client.
func (s *Session) submitAnswer(ctx context.Context, g *game.Game, req protocol.Request) Result {
	var body protocol.SubmitAnswerRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	correct, err := g.SubmitAnswer(ctx, s.username, body.AnswerID, body.QuestionID)
	if err != nil {
		return s.fail(err)
	}
	return Result{Kind: protocol.KindSubmitAnswer, Payload: protocol.SubmitAnswerResponse{
		Status:          true,
		CorrectAnswerID: correct,
	}}
}

func (s *Session) getGameResults(g *game.Game) Result {
	if !g.Finished() {
		return s.fail(protocol.E(protocol.ErrInvalidRequest, "Game is not yet finished"))
	}

	questions := g.Questions()
	results := g.Results()

	players := make([]protocol.PlayerResult, 0, len(results))
	for username, rec := range results {
		p, serr := s.deps.Store.GetPlayerSummary(username)
		if serr != nil {
			return s.failStorage(serr)
		}
		players = append(players, protocol.PlayerResult{
			Username:           username,
			AvatarColor:        p.AvatarColor,
			IsOnline:           g.IsOnline(username),
			ScoreChange:        rec.ScoreChange(questions, g.TimePerQuestion()),
			CorrectAnswerCount: rec.CorrectCount(questions),
			WrongAnswerCount:   rec.WrongCount(questions),
			AvgAnswerTime:      rec.AverageAnswerTime(),
		})
	}

	var userAnswers []protocol.AnsweredQuestion
	if rec, ok := results[s.username]; ok {
		userAnswers = make([]protocol.AnsweredQuestion, len(questions))
		for i, q := range questions {
			userAnswers[i] = protocol.AnsweredQuestion{
				Question:        q.Prompt,
				Answers:         q.Answers,
				CorrectAnswerID: q.CorrectIndex,
				ChosenAnswerID:  rec.Answers[i].Chosen,
				AnswerTime:      rec.Answers[i].Time,
			}
		}
	}

	return Result{Kind: protocol.KindGetGameResults, Payload: protocol.GetGameResultsResponse{
		Status:      true,
		UserAnswers: userAnswers,
		Players:     players,
	}}
}

// leaveGame returns the session to the menu. A nil game means the registry
// already dropped it; only the room membership is left to release.
func (s *Session) leaveGame(g *game.Game) Result {
	s.deps.Log.Info("player left game", "endpoint", s.endpoint, "username", s.username, "game_id", s.gameID)
	if g != nil {
		s.deps.Games.RemovePlayer(g, s.username)
	}
	s.deps.Rooms.RemoveMember(s.roomID, s.username)

	s.roomID, s.roomName, s.gameID = "", "", ""
	s.state = StateMenu
	return Result{Kind: protocol.KindLeaveGame, Payload: protocol.StatusResponse{Status: true}}
}
