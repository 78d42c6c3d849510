package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tahadi-quiz-service/internal/app"
	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func newTestService() *app.GameService {
	bankRepo := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.Bank{
		"math": {
			SubjectID: "math",
			Questions: []domain.Question{
				{ID: "m1", Text: "5 + 7", Options: []string{"10", "12"}, CorrectIndex: 1, Points: 10, Difficulty: domain.DifficultyEasy},
			},
		},
	}), time.Minute)
	return app.NewGameService(bankRepo, memory.NewRoomStore(), memory.NewProfileStore(), app.Config{
		TimePerQuestion:    60,
		ProbabilityCorrect: 1.0,
		MinOpponentDelay:   time.Millisecond,
		MaxOpponentDelay:   2 * time.Millisecond,
	})
}

func TestWebSocketSoloFlow(t *testing.T) {
	service := newTestService()
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?mode=solo&userId=u1&name=Alice&subjectId=math&difficulty=easy&count=1&opponents=1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First event is the initial phase snapshot.
	typ, payload := readNext(conn, t)
	if typ != "phase" {
		t.Fatalf("expected phase, got %s", typ)
	}
	var snap domain.RoundSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Phase != domain.PhaseAnswering || len(snap.Question.Options) != 2 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"option": snap.Question.CorrectIndex},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	verdictSeen := false
	resultsSeen := false
	for i := 0; i < 10 && !(verdictSeen && resultsSeen); i++ {
		typ, payload := readNext(conn, t)
		switch typ {
		case "verdict":
			var v verdictPayload
			if err := json.Unmarshal(payload, &v); err != nil {
				t.Fatalf("decode verdict: %v", err)
			}
			if !v.Accepted {
				t.Fatalf("expected accepted verdict, got %+v", v)
			}
			verdictSeen = true
		case "phase":
			var s domain.RoundSnapshot
			if err := json.Unmarshal(payload, &s); err != nil {
				t.Fatalf("decode phase: %v", err)
			}
			if s.Phase == domain.PhaseResults {
				resultsSeen = true
			}
		}
	}
	if !verdictSeen || !resultsSeen {
		t.Fatalf("missing events: verdict=%v results=%v", verdictSeen, resultsSeen)
	}

	if err := conn.WriteJSON(map[string]any{"type": "advance"}); err != nil {
		t.Fatalf("write advance: %v", err)
	}

	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t)
		if typ != "summary" {
			continue
		}
		var summary domain.ResultSummary
		if err := json.Unmarshal(payload, &summary); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if summary.Scores["u1"] != 10 || summary.TotalQuestions != 1 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		return
	}
	t.Fatalf("summary never arrived")
}

func TestWebSocketRejectsBadMode(t *testing.T) {
	service := newTestService()
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "?userId=u1&mode=teleport")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, json.RawMessage) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg.Type, msg.Payload
}
