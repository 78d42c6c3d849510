package game

import (
	"sort"

	"tahadi-quiz-service/internal/domain"
)

// Summarize computes the terminal result for a round: per-player scores,
// the ranking (score descending, stable by join order), and the self
// player's correct count re-derived from the stored answer records.
func Summarize(r *Round) domain.ResultSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summarizeLocked()
}

func (r *Round) summarizeLocked() domain.ResultSummary {
	scores := make(map[string]int, len(r.players))
	ranking := make([]domain.PlayerResult, len(r.players))
	for i, p := range r.players {
		scores[p.ID] = p.Score
		ranking[i] = domain.PlayerResult{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	selfCorrect := 0
	for i := range r.questions {
		if rec, ok := r.ledger.get(i, r.selfID); ok && rec.Correct {
			selfCorrect++
		}
	}

	return domain.ResultSummary{
		Scores:         scores,
		Ranking:        ranking,
		SelfID:         r.selfID,
		SelfCorrect:    selfCorrect,
		TotalQuestions: len(r.questions),
	}
}
