package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/pkg/runner"
	"github.com/aretw0/interviewer/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Interviews is the live-interview surface the server exposes.
// *session.Manager implements it.
type Interviews interface {
	Start(ctx context.Context, profile interviewer.Profile) (string, interviewer.Status, error)
	Send(ctx context.Context, id, message string) (interviewer.Status, error)
	Finish(ctx context.Context, id string) (interviewer.Status, error)
	Get(ctx context.Context, id string) (interviewer.Status, error)
}

// Server serves the interview API.
type Server struct {
	interviews Interviews
	logs       ports.LogReader
	streams    *StreamManager
	metrics    http.Handler
	logger     *slog.Logger
	version    string
	pongWait   time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogReader enables the /logs endpoints.
func WithLogReader(logs ports.LogReader) Option {
	return func(s *Server) {
		s.logs = logs
	}
}

// WithMetricsHandler mounts h at /metrics (typically promhttp.Handler()).
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server over interviews.
// WithSocketPongWait sets how long a WebSocket may stay silent before it is
// dropped. Pings go out at nine tenths of d.
func WithSocketPongWait(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.pongWait = d
		}
	}
}

func NewServer(interviews Interviews, opts ...Option) *Server {
	s := &Server{
		interviews: interviews,
		streams:    NewStreamManager(),
		logger:     logging.NewNop(),
		version:    "dev",
		pongWait:   socketPongWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams.logger = s.logger
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)

	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", s.StartInterview)
		r.Get("/{id}", s.GetInterview)
		r.Post("/{id}/messages", s.SendMessage)
		r.Post("/{id}/finish", s.FinishInterview)
		r.Get("/{id}/events", s.SubscribeEvents)
		r.Get("/{id}/ws", s.InterviewSocket)
	})

	if s.logs != nil {
		r.Get("/logs", s.ListLogs)
		r.Get("/logs/{id}", s.GetLog)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRequest is the body of POST /interviews.
type StartRequest struct {
	ParticipantName string `json:"participant_name"`
	Position        string `json:"position"`
	TargetGrade     string `json:"target_grade"`
	Experience      string `json:"experience"`
}

// MessageRequest is the body of POST /interviews/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// InterviewResponse describes an interview after a request.
type InterviewResponse struct {
	ID         string `json:"id"`
	Node       string `json:"node"`
	Message    string `json:"message"`
	Waiting    bool   `json:"waiting"`
	Done       bool   `json:"done"`
	TurnCount  int    `json:"turn_count"`
	Difficulty int    `json:"difficulty"`
	Stopped    bool   `json:"stopped"`
	LogID      string `json:"log_id,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error    string `json:"error"`
	Feedback string `json:"feedback,omitempty"`
}

func toResponse(id string, st interviewer.Status) InterviewResponse {
	resp := InterviewResponse{
		ID:         id,
		Node:       string(st.Node),
		Message:    st.Prompt,
		Waiting:    st.Waiting(),
		Done:       st.Done,
		TurnCount:  st.Session.TurnCount,
		Difficulty: st.Session.Difficulty,
		Stopped:    st.Session.Stopped,
		LogID:      st.LogID,
		Feedback:   st.Feedback,
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}

// StartInterview handles POST /interviews.
func (s *Server) StartInterview(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(body.Position) == "" || strings.TrimSpace(body.TargetGrade) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("position and target_grade are required"))
		return
	}

	id, st, err := s.interviews.Start(r.Context(), interviewer.Profile{
		ParticipantName: body.ParticipantName,
		Position:        body.Position,
		TargetGrade:     body.TargetGrade,
		Experience:      body.Experience,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toResponse(id, st))
}

// GetInterview handles GET /interviews/{id}.
func (s *Server) GetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.interviews.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toResponse(id, st))
}

// SendMessage handles POST /interviews/{id}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	msg, err := runner.SanitizeInput(strings.TrimSpace(body.Message))
	if err != nil {
		s.logger.Warn("message rejected", "interview_id", id, "size", len(body.Message), "err", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	st, err := s.interviews.Send(r.Context(), id, msg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toResponse(id, st))
}

// FinishInterview handles POST /interviews/{id}/finish.
func (s *Server) FinishInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.interviews.Finish(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toResponse(id, st))
}

// ListLogs handles GET /logs.
func (s *Server) ListLogs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.logs.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetLog handles GET /logs/{id}.
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	doc, err := s.logs.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, interviewer.GraphEdges())
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "interviewer-http",
		"version": s.version,
	})
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		genErr     *domain.GenerationError
		persistErr *domain.PersistenceError
	)
	switch {
	case errors.Is(err, domain.ErrInterviewNotFound), errors.Is(err, domain.ErrLogNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrEngineFinished):
		s.writeError(w, http.StatusConflict, err)
	case errors.Is(err, session.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &persistErr):
		s.logger.Error("log persistence failed", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Feedback: persistErr.Feedback})
	case errors.As(err, &genErr):
		s.logger.Error("generation failed", "path", r.URL.Path, "node", genErr.Node, "err", err)
		s.writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusGatewayTimeout, err)
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
