package game

import (
	"time"

	"tahadi-quiz-service/internal/domain"
)

// ledger tracks answer records per (player, question) and enforces the
// at-most-one-record invariant that scoring integrity rests on.
type ledger struct {
	byQuestion []map[string]domain.AnswerRecord
}

func newLedger(totalQuestions int) *ledger {
	byQuestion := make([]map[string]domain.AnswerRecord, totalQuestions)
	for i := range byQuestion {
		byQuestion[i] = make(map[string]domain.AnswerRecord)
	}
	return &ledger{byQuestion: byQuestion}
}

// record stores an answer record unless one already exists for the pair.
func (l *ledger) record(questionIndex int, playerID string, selected int, correct bool, at time.Time) bool {
	records := l.byQuestion[questionIndex]
	if _, ok := records[playerID]; ok {
		return false
	}
	records[playerID] = domain.AnswerRecord{
		PlayerID:   playerID,
		Selected:   selected,
		AnsweredAt: at,
		Correct:    correct,
	}
	return true
}

func (l *ledger) has(questionIndex int, playerID string) bool {
	_, ok := l.byQuestion[questionIndex][playerID]
	return ok
}

func (l *ledger) get(questionIndex int, playerID string) (domain.AnswerRecord, bool) {
	rec, ok := l.byQuestion[questionIndex][playerID]
	return rec, ok
}

// recordsFor returns the records for one question, ordered by roster order.
func (l *ledger) recordsFor(questionIndex int, roster []*domain.Player) []domain.AnswerRecord {
	records := make([]domain.AnswerRecord, 0, len(l.byQuestion[questionIndex]))
	for _, p := range roster {
		if rec, ok := l.byQuestion[questionIndex][p.ID]; ok {
			records = append(records, rec)
		}
	}
	return records
}

// answeredCount reports how many of the roster answered the question.
func (l *ledger) answeredCount(questionIndex int) int {
	return len(l.byQuestion[questionIndex])
}
