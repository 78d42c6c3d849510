package game

import (
	"math/rand"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
)

// SimulatorConfig tunes how plausible the fake opponents feel.
type SimulatorConfig struct {
	// ProbabilityCorrect is the chance a simulated answer is right.
	ProbabilityCorrect float64
	// MinDelay and MaxDelay bound the uniform answer delay per player.
	MinDelay time.Duration
	MaxDelay time.Duration

	Rand *rand.Rand
}

const (
	defaultProbabilityCorrect = 0.6
	defaultMinDelay           = 2 * time.Second
	defaultMaxDelay           = 7 * time.Second
)

// Simulator plants one delayed answer per simulated player per question so a
// single-human session feels populated. Callbacks are tagged with the
// question index; the round drops any that fire after it moved on.
type Simulator struct {
	cfg SimulatorConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.ProbabilityCorrect <= 0 {
		cfg.ProbabilityCorrect = defaultProbabilityCorrect
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = defaultMinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = defaultMaxDelay
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{cfg: cfg, rnd: rnd}
}

// ScheduleAnswers arms one timer per simulated player for the given question.
func (s *Simulator) ScheduleAnswers(r *Round, questionIndex int) {
	question, ok := r.QuestionAt(questionIndex)
	if !ok {
		return
	}
	for _, playerID := range r.SimulatedPlayerIDs() {
		playerID := playerID
		delay := s.answerDelay()
		time.AfterFunc(delay, func() {
			choice := s.pick(question)
			// Rejections are expected here: the timer may have force-filled
			// this player already, or the round advanced past the question.
			_ = r.SubmitAnswerAt(playerID, questionIndex, choice)
		})
	}
}

func (s *Simulator) answerDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	spread := s.cfg.MaxDelay - s.cfg.MinDelay
	if spread <= 0 {
		return s.cfg.MinDelay
	}
	return s.cfg.MinDelay + time.Duration(s.rnd.Int63n(int64(spread)))
}

func (s *Simulator) pick(q domain.Question) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pickOption(q, s.cfg.ProbabilityCorrect, s.rnd)
}
