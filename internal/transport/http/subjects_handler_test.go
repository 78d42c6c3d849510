package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/infra/memory"
)

func TestSubjectsList(t *testing.T) {
	loader := memory.NewStaticBankLoader(map[string]domain.Bank{
		"math": {SubjectID: "math", Questions: []domain.Question{{ID: "m1"}, {ID: "m2"}}},
		"english": {SubjectID: "english", Questions: []domain.Question{{ID: "e1"}}},
	})
	handler := NewSubjectsHandler(loader)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest("GET", "/subjects", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var subjects []domain.Subject
	if err := json.Unmarshal(rec.Body.Bytes(), &subjects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subjects) != 2 || subjects[0].ID != "english" || subjects[1].QuestionCount != 2 {
		t.Fatalf("unexpected subjects: %+v", subjects)
	}
}
