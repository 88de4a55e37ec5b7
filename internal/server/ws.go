package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// chatRequest is one inbound websocket message. session_id is optional; the
// server assigns one on the first message and echoes it back so the client
// can continue the conversation.
type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Error     string `json:"error,omitempty"`
}

// handleChat runs a chat conversation over a websocket: one turn per inbound
// message, replies in order.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := ""
	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "session_id", sessionID, "error", err)
			}
			return
		}

		if req.SessionID != "" {
			sessionID = req.SessionID
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		if req.Message == "" {
			if err := conn.WriteJSON(chatResponse{SessionID: sessionID, Error: "message is required"}); err != nil {
				return
			}
			continue
		}

		reply, err := s.orchestrator.ProcessTurn(r.Context(), sessionID, req.UserID, req.Message)
		if err != nil {
			s.logger.Error("websocket turn failed", "session_id", sessionID, "error", err)
			if err := conn.WriteJSON(chatResponse{SessionID: sessionID, Error: "turn processing failed"}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(chatResponse{SessionID: sessionID, Reply: reply}); err != nil {
			return
		}
	}
}
