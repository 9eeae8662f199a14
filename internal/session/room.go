package session

import "triviarena/server/internal/protocol"

func (s *Session) handleRoomAdmin(req protocol.Request) Result {
	switch req.Kind {
	case protocol.KindCloseRoom:
		return s.closeRoom()
	case protocol.KindStartGame:
		return s.startGame()
	case protocol.KindGetRoomState:
		return s.getRoomState()
	case protocol.KindDisconnect:
		s.deps.Log.Info("admin disconnected, closing room", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
		s.closeRoom()
		s.logout()
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrInvalidRequest, ""))
	}
}

func (s *Session) closeRoom() Result {
	s.deps.Log.Info("admin closed room", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID, "room_name", s.roomName)
	s.deps.Rooms.Delete(s.roomID)
	s.roomID, s.roomName = "", ""
	s.state = StateMenu
	return Result{Kind: protocol.KindCloseRoom, Payload: protocol.StatusResponse{Status: true}}
}

func (s *Session) startGame() Result {
	r, rerr := s.deps.Rooms.Get(s.roomID)
	if rerr != nil {
		return s.fail(rerr)
	}
	if r.MemberCount() <= 1 {
		return s.fail(protocol.E(protocol.ErrNotEnoughPlayers, ""))
	}

	g, gerr := s.deps.Games.Create(r)
	if gerr != nil {
		return s.fail(gerr)
	}

	// the room is observably active only once the game exists
	r.SetActive(true)
	s.deps.Log.Info("admin started game", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID, "room_name", s.roomName)
	s.gameID = g.ID()
	s.state = StateInGame
	return Result{Kind: protocol.KindStartGame, Payload: protocol.StatusResponse{Status: true}}
}

func (s *Session) handleRoomMember(req protocol.Request) Result {
	switch req.Kind {
	case protocol.KindLeaveRoom:
		return s.leaveRoom()
	case protocol.KindGetRoomState:
		return s.getRoomState()
	case protocol.KindDisconnect:
		s.deps.Log.Info("member disconnected, leaving room", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
		s.leaveRoom()
		s.logout()
		return Result{}
	default:
		return s.fail(protocol.E(protocol.ErrInvalidRequest, ""))
	}
}

func (s *Session) leaveRoom() Result {
	r, rerr := s.deps.Rooms.Get(s.roomID)
	if rerr != nil {
		// room was closed under us; just go back to the menu
		s.deps.Log.Info("room was closed, member back to menu", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
		s.roomID, s.roomName = "", ""
		s.state = StateMenu
		return Result{Kind: protocol.KindLeaveRoom, Payload: protocol.StatusResponse{Status: false}}
	}

	if r.Metadata().Active {
		// the game already started without us; leaving now carries a penalty
		s.deps.Games.RemovePlayerByID(s.roomID, s.username)
		s.deps.Log.Info("member left started room, punished", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
	} else {
		s.deps.Log.Info("member left room", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
	}
	s.deps.Rooms.RemoveMember(s.roomID, s.username)

	s.roomID, s.roomName = "", ""
	s.state = StateMenu
	return Result{Kind: protocol.KindLeaveRoom, Payload: protocol.StatusResponse{Status: true}}
}

// getRoomState serves both the admin and member views. A member polling a
// deleted room is sent back to the menu; a member polling a started room is
// transferred into the game.
func (s *Session) getRoomState() Result {
	r, rerr := s.deps.Rooms.Get(s.roomID)
	if rerr != nil {
		s.deps.Log.Info("room was closed, member back to menu", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
		s.roomID, s.roomName = "", ""
		s.state = StateMenu
		return Result{Kind: protocol.KindGetRoomState, Payload: protocol.GetRoomStateResponse{Status: true, IsClosed: true}}
	}

	meta := r.Metadata()
	players, err := s.players(r.Members())
	if err != nil {
		return s.failStorage(err)
	}

	resp := protocol.GetRoomStateResponse{
		Status:        true,
		HasGameBegun:  meta.Active,
		Players:       players,
		QuestionCount: meta.QuestionCount,
		AnswerTimeout: meta.TimePerQuestion,
		MaxPlayers:    meta.MaxPlayers,
	}

	if meta.Active && s.state == StateRoomMember {
		if _, gerr := s.deps.Games.Get(s.roomID); gerr == nil {
			s.deps.Log.Info("game started, member transferred to game", "endpoint", s.endpoint, "username", s.username, "room_id", s.roomID)
			s.gameID = s.roomID
			s.state = StateInGame
		}
	}
	return Result{Kind: protocol.KindGetRoomState, Payload: resp}
}
