package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tahadi-quiz-service/internal/app"
	"tahadi-quiz-service/internal/domain"
)

// RoomsHandler exposes the lobby operations clients need before a websocket
// round starts: create, join, inspect, and host-start.
type RoomsHandler struct {
	service *app.GameService
}

func NewRoomsHandler(service *app.GameService) *RoomsHandler {
	return &RoomsHandler{service: service}
}

type createRoomRequest struct {
	HostID        string            `json:"hostId"`
	HostName      string            `json:"hostName"`
	SubjectID     string            `json:"subjectId"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	QuestionCount int               `json:"questionCount"`
	MaxPlayers    int               `json:"maxPlayers"`
}

type joinRoomRequest struct {
	Code        string `json:"code"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type startRoomRequest struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

type startRoomResponse struct {
	RoundID string `json:"roundId"`
}

func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !decode(w, r, &req) {
		return
	}
	room, err := h.service.CreateRoom(r.Context(), req.HostID, req.HostName, domain.Room{
		SubjectID:     req.SubjectID,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
		MaxPlayers:    req.MaxPlayers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomsHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if !decode(w, r, &req) {
		return
	}
	room, err := h.service.JoinRoom(r.Context(), req.Code, req.PlayerID, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	room, err := h.service.Room(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomsHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRoomRequest
	if !decode(w, r, &req) {
		return
	}
	roundID, err := h.service.StartRoomRound(r.Context(), req.Code, req.PlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startRoomResponse{RoundID: roundID})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrSubjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrRoomNotWaiting),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrInvalidRoomCode),
		errors.Is(err, domain.ErrEmptyQuestionSet),
		errors.Is(err, domain.ErrNoSelfPlayer):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
