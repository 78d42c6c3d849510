package game

import (
	"testing"

	"tahadi-quiz-service/internal/domain"
)

func TestSummarizeKeepsJoinOrderOnTies(t *testing.T) {
	roster := []domain.Player{
		{ID: "self", DisplayName: "أنت", Human: true},
		{ID: "bot-1", DisplayName: "أحمد"},
		{ID: "bot-2", DisplayName: "سارة"},
	}
	r := newTestRound(t, testQuestions()[:1], roster, Config{TimePerQuestion: 10})

	// Everyone answers correctly: a three-way tie.
	r.SubmitAnswer("self", 1)
	r.SubmitAnswer("bot-1", 1)
	r.SubmitAnswer("bot-2", 1)

	summary := Summarize(r)
	want := []string{"self", "bot-1", "bot-2"}
	for i, id := range want {
		if summary.Ranking[i].PlayerID != id {
			t.Fatalf("tie broke join order: got %s at rank %d", summary.Ranking[i].PlayerID, i+1)
		}
		if summary.Ranking[i].Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, summary.Ranking[i].Rank)
		}
	}
}

func TestSummarizeBeforeCompletionReflectsRunningState(t *testing.T) {
	r := newTestRound(t, testQuestions(), testRoster(), Config{TimePerQuestion: 10})

	r.SubmitAnswer("self", 1)
	r.SubmitAnswer("bot-1", 0)

	summary := Summarize(r)
	if summary.Scores["self"] != 10 || summary.Scores["bot-1"] != 0 {
		t.Fatalf("unexpected running scores: %+v", summary.Scores)
	}
	if summary.SelfCorrect != 1 {
		t.Fatalf("expected one correct answer for self, got %d", summary.SelfCorrect)
	}
	if summary.Ranking[0].PlayerID != "self" {
		t.Fatalf("expected self leading, got %+v", summary.Ranking)
	}
}
