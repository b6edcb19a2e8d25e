package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/runner"
	"github.com/aretw0/interviewer/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	socketWriteWait = 10 * time.Second
	socketPongWait  = 60 * time.Second
)

var socketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Socket frame types.
const (
	FrameSend   = "send"
	FrameFinish = "finish"
	FramePing   = "ping"
	FramePong   = "pong"
	FrameStatus = "status"
	FrameError  = "error"
)

// SocketInbound is a frame sent by the client on /interviews/{id}/ws.
type SocketInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// SocketOutbound is a frame sent by the server.
type SocketOutbound struct {
	Type      string             `json:"type"`
	Interview *InterviewResponse `json:"interview,omitempty"`
	Code      string             `json:"code,omitempty"`
	Error     string             `json:"error,omitempty"`
	Feedback  string             `json:"feedback,omitempty"`
}

// InterviewSocket handles GET /interviews/{id}/ws: a chat over one connection.
// Every send or finish frame is answered with a status or error frame.
func (s *Server) InterviewSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.interviews.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := socketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "interview_id", id, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The deadline is also pushed out after every handled frame: a slow turn
	// keeps the read loop away from pong frames.
	extendRead := func() error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	}
	if err := extendRead(); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error { return extendRead() })

	out := make(chan SocketOutbound, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		ticker := time.NewTicker(s.pongWait * 9 / 10)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-out:
				if err := conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	push := func(frame SocketOutbound) {
		select {
		case out <- frame:
		case <-ctx.Done():
		}
	}
	reply := func(st interviewer.Status, err error) {
		if err != nil {
			push(s.socketError(id, err))
			return
		}
		resp := toResponse(id, st)
		push(SocketOutbound{Type: FrameStatus, Interview: &resp})
	}

	reply(st, nil)
	for {
		var in SocketInbound
		if err := conn.ReadJSON(&in); err != nil {
			break
		}

		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case FramePing:
			push(SocketOutbound{Type: FramePong})
		case FrameSend:
			msg, err := runner.SanitizeInput(strings.TrimSpace(in.Message))
			if err != nil {
				push(SocketOutbound{Type: FrameError, Code: "invalid_argument", Error: err.Error()})
				continue
			}
			reply(s.interviews.Send(ctx, id, msg))
		case FrameFinish:
			reply(s.interviews.Finish(ctx, id))
		default:
			push(SocketOutbound{Type: FrameError, Code: "invalid_argument", Error: "unsupported frame type: " + in.Type})
		}
		if err := extendRead(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}

func (s *Server) socketError(id string, err error) SocketOutbound {
	frame := SocketOutbound{Type: FrameError, Error: err.Error()}

	var (
		genErr     *domain.GenerationError
		persistErr *domain.PersistenceError
	)
	switch {
	case errors.Is(err, domain.ErrInterviewNotFound):
		frame.Code = "not_found"
	case errors.Is(err, domain.ErrEngineFinished):
		frame.Code = "finished"
	case errors.Is(err, session.ErrEmptyMessage):
		frame.Code = "invalid_argument"
	case errors.As(err, &persistErr):
		frame.Code = "persistence"
		frame.Feedback = persistErr.Feedback
	case errors.As(err, &genErr):
		frame.Code = "generation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		frame.Code = "timeout"
	default:
		frame.Code = "internal"
	}
	switch frame.Code {
	case "internal", "persistence", "generation":
		s.logger.Error("websocket request failed", "interview_id", id, "err", err)
	}
	return frame
}
