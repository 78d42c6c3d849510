package questions

import (
	"math/rand"

	"tahadi-quiz-service/internal/domain"
)

// Draw selects the ordered question sequence for one round.
//
// It filters the bank to the requested difficulty (empty difficulty keeps
// everything), permutes the matches uniformly, truncates to count, and then
// shuffles each question's options independently, remapping CorrectIndex so
// the correct text survives the permutation. When fewer questions match than
// requested, all matches are returned; the caller decides whether a short or
// empty draw is acceptable.
//
// Draw is pure with respect to rnd: a seeded source yields a repeatable draw.
func Draw(bank domain.Bank, difficulty domain.Difficulty, count int, rnd *rand.Rand) []domain.Question {
	matched := make([]domain.Question, 0, len(bank.Questions))
	for _, q := range bank.Questions {
		if difficulty == "" || q.Difficulty == difficulty {
			matched = append(matched, q)
		}
	}

	rnd.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})

	if count > 0 && count < len(matched) {
		matched = matched[:count]
	}

	drawn := make([]domain.Question, len(matched))
	for i, q := range matched {
		drawn[i] = shuffleOptions(q, rnd)
	}
	return drawn
}

// shuffleOptions permutes a question's options and follows the correct one.
func shuffleOptions(q domain.Question, rnd *rand.Rand) domain.Question {
	options := make([]string, len(q.Options))
	copy(options, q.Options)

	perm := rnd.Perm(len(options))
	shuffled := make([]string, len(options))
	correct := q.CorrectIndex
	for from, to := range perm {
		shuffled[to] = options[from]
		if from == q.CorrectIndex {
			correct = to
		}
	}

	q.Options = shuffled
	q.CorrectIndex = correct
	return q
}
