package session

import (
	"triviarena/server/internal/protocol"
	"triviarena/server/internal/room"
	"triviarena/server/internal/storage"
	"triviarena/server/internal/validate"
)

func (s *Session) handleMenu(req protocol.Request) Result {
	switch req.Kind {
	case protocol.KindLogout:
		return s.menuLogout()
	case protocol.KindGetRooms:
		return s.getRooms()
	case protocol.KindGetPlayersInRoom:
		return s.getPlayersInRoom(req)
	case protocol.KindGetHighScores:
		return s.getHighScores()
	case protocol.KindGetPersonalStats:
		return s.getPersonalStats()
	case protocol.KindJoinRoom:
		return s.joinRoom(req)
	case protocol.KindCreateRoom:
		return s.createRoom(req)
	case protocol.KindGetUserData:
		return s.getUserData()
	case protocol.KindUpdateUserData:
		return s.updateUserData(req)
	case protocol.KindDisconnect:
		s.logout()
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrInvalidRequest, ""))
	}
}

func (s *Session) menuLogout() Result {
	s.deps.Log.Info("user logged out", "endpoint", s.endpoint, "username", s.username)
	s.logout()
	return Result{Kind: protocol.KindLogout, Payload: protocol.StatusResponse{Status: true}}
}

func (s *Session) getRooms() Result {
	listings := []protocol.RoomListing{}
	for _, meta := range s.deps.Rooms.List() {
		r, rerr := s.deps.Rooms.Get(meta.ID)
		if rerr != nil {
			// deleted between snapshot and lookup
			continue
		}
		players, err := s.players(r.Members())
		if err != nil {
			s.deps.Log.Warn("failed to resolve room players", "endpoint", s.endpoint, "room_id", meta.ID, "err", err)
			continue
		}

		finished := false
		if meta.Active {
			if g, gerr := s.deps.Games.Get(meta.ID); gerr == nil {
				finished = g.Finished()
			}
		}

		listings = append(listings, protocol.RoomListing{
			Room:       roomDataFor(meta),
			IsFinished: finished,
			Players:    players,
		})
	}
	return Result{Kind: protocol.KindGetRooms, Payload: protocol.GetRoomsResponse{Status: true, Rooms: listings}}
}

func (s *Session) getPlayersInRoom(req protocol.Request) Result {
	var body protocol.GetPlayersInRoomRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	r, rerr := s.deps.Rooms.Get(body.RoomID)
	if rerr != nil {
		return Result{Kind: protocol.KindGetPlayersInRoom, Payload: protocol.GetPlayersInRoomResponse{Status: false}}
	}

	players, err := s.players(r.Members())
	if err != nil {
		s.deps.Log.Warn("failed to resolve room players", "endpoint", s.endpoint, "room_id", body.RoomID, "err", err)
		return Result{Kind: protocol.KindGetPlayersInRoom, Payload: protocol.GetPlayersInRoomResponse{Status: false}}
	}
	return Result{Kind: protocol.KindGetPlayersInRoom, Payload: protocol.GetPlayersInRoomResponse{Status: true, Players: players}}
}

// topPlayersLimit caps the high-score listing.
const topPlayersLimit = 50

func (s *Session) getHighScores() Result {
	top, err := s.deps.Store.GetTopPlayers(topPlayersLimit)
	if err != nil {
		return s.failStorage(err)
	}
	players := make([]protocol.Player, len(top))
	for i, p := range top {
		players[i] = protocol.Player{Username: p.Username, AvatarColor: p.AvatarColor, Score: p.Score}
	}
	return Result{Kind: protocol.KindGetHighScores, Payload: protocol.GetHighScoresResponse{Status: true, Statistics: players}}
}

func (s *Session) getPersonalStats() Result {
	stats, err := s.deps.Store.GetUserStatistics(s.username)
	if err != nil {
		return s.failStorage(err)
	}
	s.deps.Log.Info("personal statistics requested", "endpoint", s.endpoint, "username", s.username)
	return Result{Kind: protocol.KindGetPersonalStats, Payload: protocol.GetPersonalStatsResponse{
		Status:     true,
		Statistics: statisticsFor(stats),
	}}
}

func (s *Session) joinRoom(req protocol.Request) Result {
	var body protocol.JoinRoomRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	r, rerr := s.deps.Rooms.Get(body.RoomID)
	if rerr != nil {
		return s.fail(rerr)
	}

	if err := r.AddMember(s.username); err != nil {
		s.deps.Log.Info("failed to join room", "endpoint", s.endpoint, "username", s.username, "room_id", body.RoomID, "err", err.Message)
		return Result{Kind: protocol.KindJoinRoom, Payload: protocol.StatusResponse{Status: false}}
	}

	s.deps.Log.Info("user joined room", "endpoint", s.endpoint, "username", s.username, "room_id", body.RoomID)
	s.roomID = body.RoomID
	s.roomName = r.Metadata().Name
	s.state = StateRoomMember
	return Result{Kind: protocol.KindJoinRoom, Payload: protocol.StatusResponse{Status: true}}
}

func validRoomParams(name string, maxPlayers, questionCount, timePerQuestion uint) bool {
	return len(name) >= 4 && maxPlayers > 1 && questionCount >= 2 && timePerQuestion >= 5
}

func (s *Session) createRoom(req protocol.Request) Result {
	var body protocol.CreateRoomRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	if !validRoomParams(body.RoomName, body.MaxPlayers, body.QuestionCount, body.TimePerQuestion) {
		s.deps.Log.Info("invalid room parameters", "endpoint", s.endpoint, "username", s.username)
		return Result{Kind: protocol.KindCreateRoom, Payload: protocol.StatusResponse{Status: false}}
	}

	r := s.deps.Rooms.Create(s.username, room.Metadata{
		Name:            body.RoomName,
		MaxPlayers:      body.MaxPlayers,
		QuestionCount:   body.QuestionCount,
		TimePerQuestion: body.TimePerQuestion,
	})

	meta := r.Metadata()
	s.deps.Log.Info("room created", "endpoint", s.endpoint, "username", s.username, "room_id", meta.ID, "room_name", meta.Name)
	s.roomID = meta.ID
	s.roomName = meta.Name
	s.state = StateRoomAdmin
	return Result{Kind: protocol.KindCreateRoom, Payload: protocol.StatusResponse{Status: true}}
}

func (s *Session) getUserData() Result {
	profile, err := s.deps.Store.GetUserProfile(s.username)
	if err != nil {
		return s.failStorage(err)
	}
	stats, err := s.deps.Store.GetUserStatistics(s.username)
	if err != nil {
		return s.failStorage(err)
	}

	return Result{Kind: protocol.KindGetUserData, Payload: protocol.GetUserDataResponse{
		Status: true,
		UserData: protocol.UserData{
			Username:    profile.Username,
			Email:       profile.Email,
			Address:     profile.Address,
			PhoneNumber: profile.PhoneNumber,
			Birthday:    profile.Birthday,
			AvatarColor: profile.AvatarColor,
			MemberSince: profile.MemberSince.Unix(),
		},
		Statistics: statisticsFor(stats),
	}}
}

func (s *Session) updateUserData(req protocol.Request) Result {
	var body protocol.UpdateUserDataRequest
	if err := protocol.Decode(req.Body, &body); err != nil {
		return s.fail(err)
	}

	if err := validate.Address(body.Address); err != nil {
		return Result{Kind: protocol.KindUpdateUserData, Payload: protocol.UpdateUserDataResponse{Status: false, Message: err.Error()}}
	}
	if err := validate.PhoneNumber(body.PhoneNumber); err != nil {
		return Result{Kind: protocol.KindUpdateUserData, Payload: protocol.UpdateUserDataResponse{Status: false, Message: err.Error()}}
	}
	if body.Password != nil {
		if err := validate.Password(*body.Password); err != nil {
			return Result{Kind: protocol.KindUpdateUserData, Payload: protocol.UpdateUserDataResponse{Status: false, Message: err.Error()}}
		}
	}

	if err := s.deps.Store.UpdateUserProfile(s.username, storage.ProfileUpdate{
		Password:    body.Password,
		Address:     body.Address,
		PhoneNumber: body.PhoneNumber,
		AvatarColor: body.AvatarColor,
	}); err != nil {
		return s.failStorage(err)
	}

	s.deps.Log.Info("user data updated", "endpoint", s.endpoint, "username", s.username)
	return Result{Kind: protocol.KindUpdateUserData, Payload: protocol.UpdateUserDataResponse{Status: true}}
}

func roomDataFor(meta room.Metadata) protocol.RoomData {
	return protocol.RoomData{
		ID:              meta.ID,
		Name:            meta.Name,
		MaxPlayers:      meta.MaxPlayers,
		QuestionCount:   meta.QuestionCount,
		TimePerQuestion: meta.TimePerQuestion,
		IsActive:        meta.Active,
	}
}

func statisticsFor(stats storage.UserStatistics) protocol.UserStatistics {
	return protocol.UserStatistics{
		AvgAnswerTime:  stats.AvgAnswerTime,
		CorrectAnswers: stats.CorrectAnswers,
		WrongAnswers:   stats.WrongAnswers,
		TotalAnswers:   stats.TotalAnswers,
		TotalGames:     stats.TotalGames,
		Score:          stats.Score,
	}
}
