package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"tahadi-quiz-service/internal/app"
	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/game"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type verdictPayload struct {
	Verdict  domain.Verdict `json:"verdict"`
	Accepted bool           `json:"accepted"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and attaches the client to a round: solo mode
// starts one on the spot, room mode resolves the round by lobby code.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	var roundID string
	switch query.Get("mode") {
	case "solo":
		name := query.Get("name")
		subjectID := query.Get("subjectId")
		if name == "" || subjectID == "" {
			http.Error(w, "missing name or subjectId", http.StatusBadRequest)
			return
		}
		count, _ := strconv.Atoi(query.Get("count"))
		opponents, _ := strconv.Atoi(query.Get("opponents"))
		id, err := h.service.StartSolo(r.Context(), userID, name, app.SoloOptions{
			SubjectID:  subjectID,
			Difficulty: domain.Difficulty(query.Get("difficulty")),
			Count:      count,
			Opponents:  opponents,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		roundID = id
	case "room":
		roundID = query.Get("code")
		if !domain.ValidRoomCode(roundID) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "mode must be solo or room", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(roundID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- eventMessage(update):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			verdict, err := h.service.SubmitAnswer(roundID, userID, payload.Option)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "verdict", Payload: verdictPayload{Verdict: verdict, Accepted: verdict.Accepted()}}
		case "advance":
			if err := h.service.Advance(roundID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func eventMessage(ev game.Event) outboundMessage[any] {
	if ev.Type == game.EventSummary && ev.Summary != nil {
		return outboundMessage[any]{Type: string(ev.Type), Payload: *ev.Summary}
	}
	return outboundMessage[any]{Type: string(ev.Type), Payload: ev.Snapshot}
}
