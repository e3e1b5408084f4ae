// Package rest exposes the HTTP user directory and history endpoints.
package rest

import (
	"chat-presence/errors"
	"chat-presence/repositories"
	"chat-presence/services"
	"encoding/json"
	"log/slog"
	"net/http"
)

type Server struct {
	log      *slog.Logger
	users    services.IUserService
	messages repositories.IMessageRepository
	mux      *http.ServeMux
}

// NewServer wires the REST routes. The websocket gateway is mounted on the
// same mux so one listener serves both boundaries.
func NewServer(log *slog.Logger, users services.IUserService, messages repositories.IMessageRepository, gateway http.Handler) *Server {
	s := &Server{
		log:      log,
		users:    users,
		messages: messages,
		mux:      http.NewServeMux(),
	}
	s.routes(gateway)
	return s
}

func (s *Server) routes(gateway http.Handler) {
	s.mux.HandleFunc("POST /users/register", s.handleRegister)
	s.mux.HandleFunc("POST /users/login", s.handleLogin)
	s.mux.HandleFunc("GET /users/online", s.handleListOnline)
	s.mux.HandleFunc("GET /users/{username}", s.handleGetUser)
	s.mux.HandleFunc("GET /users", s.handleListAll)
	s.mux.HandleFunc("GET /messages/{chatId}", s.handleHistory)
	if gateway != nil {
		s.mux.Handle("/ws", gateway)
	}
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Register(req.Username, req.Password, req.FullName)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Login(req.Username, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListOnline(w http.ResponseWriter, _ *http.Request) {
	users, err := s.users.ListOnline()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListAll(w http.ResponseWriter, _ *http.Request) {
	users, err := s.users.ListAll()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Lookup(r.PathValue("username"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messages.GetMessages(r.PathValue("chatId"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	// Keep the payload an array even when the chat has no history.
	if messages == nil {
		messages = []repositories.DiskMessage{}
	}
	s.writeJSON(w, http.StatusOK, messages)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "error", err)
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}
