package game

import (
	"math/rand"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
)

// Scheduler plants delayed answers for non-human players each time a
// question opens. Implemented by Simulator; nil disables opponents.
type Scheduler interface {
	ScheduleAnswers(r *Round, questionIndex int)
}

// EventType identifies what a round event carries.
type EventType string

const (
	EventPhase   EventType = "phase"
	EventTick    EventType = "tick"
	EventSummary EventType = "summary"
)

// Event is pushed to subscribers on every observable round change.
type Event struct {
	Type     EventType             `json:"type"`
	Snapshot domain.RoundSnapshot  `json:"snapshot"`
	Summary  *domain.ResultSummary `json:"summary,omitempty"`
}

// Config carries the per-round tunables.
type Config struct {
	// TimePerQuestion is the answering window in seconds.
	TimePerQuestion int
	// GraceDelay is how long to linger in Answering after everyone has
	// answered, so the last submission is visible before results. Zero
	// transitions synchronously.
	GraceDelay time.Duration
	// FillProbabilityCorrect is the chance a force-filled simulated answer
	// lands on the correct option when the timer expires first.
	FillProbabilityCorrect float64

	// Now and Rand default to the wall clock and a time-seeded source.
	Now  func() time.Time
	Rand *rand.Rand
}

const (
	defaultTimePerQuestion        = 10
	defaultGraceDelay             = 500 * time.Millisecond
	defaultFillProbabilityCorrect = 0.5
)

// Round drives one question sequence for a fixed roster. It owns all round
// state; every other component goes through its methods, never the fields.
type Round struct {
	mu sync.Mutex

	questions []domain.Question
	players   []*domain.Player
	selfID    string
	cfg       Config
	now       func() time.Time
	rnd       *rand.Rand

	index      int
	phase      domain.Phase
	remaining  int
	ledger     *ledger
	scored     []bool
	advanced   []bool
	selfChoice int

	scheduler   Scheduler
	stopTick    chan struct{}
	tickOnce    sync.Once
	subscribers map[chan Event]struct{}
	summary     *domain.ResultSummary
}

// NewRound validates the inputs and builds a round in Answering(0).
// The question set and roster must be non-empty and the roster must contain
// selfID as a human player.
func NewRound(questions []domain.Question, players []domain.Player, selfID string, cfg Config) (*Round, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionSet
	}
	if len(players) == 0 {
		return nil, domain.ErrEmptyRoster
	}
	self := false
	for _, p := range players {
		if p.ID == selfID && p.Human {
			self = true
		}
	}
	if !self {
		return nil, domain.ErrNoSelfPlayer
	}

	if cfg.TimePerQuestion <= 0 {
		cfg.TimePerQuestion = defaultTimePerQuestion
	}
	if cfg.GraceDelay < 0 {
		cfg.GraceDelay = defaultGraceDelay
	}
	if cfg.FillProbabilityCorrect <= 0 {
		cfg.FillProbabilityCorrect = defaultFillProbabilityCorrect
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	roster := make([]*domain.Player, len(players))
	for i := range players {
		p := players[i]
		p.Score = 0
		roster[i] = &p
	}

	return &Round{
		questions:   questions,
		players:     roster,
		selfID:      selfID,
		cfg:         cfg,
		now:         cfg.Now,
		rnd:         cfg.Rand,
		phase:       domain.PhaseAnswering,
		remaining:   cfg.TimePerQuestion,
		ledger:      newLedger(len(questions)),
		scored:      make([]bool, len(questions)),
		advanced:    make([]bool, len(questions)),
		selfChoice:  domain.NoAnswer,
		stopTick:    make(chan struct{}),
		subscribers: make(map[chan Event]struct{}),
	}, nil
}

// Start launches the 1-second tick loop and schedules opponents for the
// first question. Tests drive Tick directly and skip Start.
func (r *Round) Start(scheduler Scheduler) {
	r.mu.Lock()
	r.scheduler = scheduler
	r.mu.Unlock()

	if scheduler != nil {
		scheduler.ScheduleAnswers(r, 0)
	}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Tick()
			case <-r.stopTick:
				return
			}
		}
	}()
}

// Stop halts the tick loop. Safe to call more than once.
func (r *Round) Stop() {
	r.tickOnce.Do(func() { close(r.stopTick) })
}

// Tick advances the countdown by one second. Outside Answering it is a no-op,
// which also makes ticks arriving after a phase flip harmless.
func (r *Round) Tick() {
	r.mu.Lock()
	if r.phase != domain.PhaseAnswering {
		r.mu.Unlock()
		return
	}

	r.remaining--
	if r.remaining > 0 {
		if r.ledger.answeredCount(r.index) == len(r.players) {
			// Grace window elapsed in tick units; show results now.
			r.enterResultsLocked()
			r.mu.Unlock()
			return
		}
		r.broadcastLocked(Event{Type: EventTick, Snapshot: r.snapshotLocked()})
		r.mu.Unlock()
		return
	}

	r.remaining = 0
	r.forceFillLocked()
	r.enterResultsLocked()
	r.mu.Unlock()
}

// SubmitAnswer records the given player's choice for the current question.
func (r *Round) SubmitAnswer(playerID string, optionIndex int) domain.Verdict {
	r.mu.Lock()
	index := r.index
	r.mu.Unlock()
	return r.SubmitAnswerAt(playerID, index, optionIndex)
}

// SubmitAnswerAt records an answer tagged with the question index it was
// meant for. Submissions for a stale index are rejected, which is how late
// opponent callbacks from an advanced-past question are discarded.
func (r *Round) SubmitAnswerAt(playerID string, questionIndex, optionIndex int) domain.Verdict {
	r.mu.Lock()

	if r.phase != domain.PhaseAnswering || questionIndex != r.index {
		r.mu.Unlock()
		return domain.RejectPhaseNotAnswering
	}
	player := r.playerLocked(playerID)
	if player == nil {
		r.mu.Unlock()
		return domain.RejectUnknownPlayer
	}
	if r.ledger.has(r.index, playerID) {
		r.mu.Unlock()
		return domain.RejectDuplicateAnswer
	}

	question := r.questions[r.index]
	correct := optionIndex == question.CorrectIndex
	r.ledger.record(r.index, playerID, optionIndex, correct, r.now())
	if playerID == r.selfID {
		r.selfChoice = optionIndex
	}

	allAnswered := r.ledger.answeredCount(r.index) == len(r.players)
	if allAnswered && r.cfg.GraceDelay == 0 {
		r.enterResultsLocked()
		r.mu.Unlock()
		return domain.AnswerAccepted
	}

	r.broadcastLocked(Event{Type: EventTick, Snapshot: r.snapshotLocked()})
	index := r.index
	r.mu.Unlock()

	if allAnswered {
		time.AfterFunc(r.cfg.GraceDelay, func() { r.finishAnswering(index) })
	}
	return domain.AnswerAccepted
}

// finishAnswering flips to Results when the grace timer fires, unless the
// round moved on first.
func (r *Round) finishAnswering(questionIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != domain.PhaseAnswering || r.index != questionIndex {
		return
	}
	r.enterResultsLocked()
}

// Advance moves to the next question or completes the round. It is
// idempotent per question index: repeat calls at the same index do nothing.
func (r *Round) Advance() {
	r.mu.Lock()

	if r.phase != domain.PhaseResults || r.advanced[r.index] {
		r.mu.Unlock()
		return
	}
	r.advanced[r.index] = true

	if r.index+1 < len(r.questions) {
		r.index++
		r.phase = domain.PhaseAnswering
		r.remaining = r.cfg.TimePerQuestion
		r.selfChoice = domain.NoAnswer
		r.broadcastLocked(Event{Type: EventPhase, Snapshot: r.snapshotLocked()})
		scheduler := r.scheduler
		index := r.index
		r.mu.Unlock()
		if scheduler != nil {
			scheduler.ScheduleAnswers(r, index)
		}
		return
	}

	r.phase = domain.PhaseComplete
	summary := r.summarizeLocked()
	r.summary = &summary
	r.broadcastLocked(Event{Type: EventSummary, Snapshot: r.snapshotLocked(), Summary: &summary})
	r.mu.Unlock()
	r.Stop()
}

// enterResultsLocked flips the phase and runs the single scoring pass for
// the current question. The scored guard keeps re-entry from double-awarding.
func (r *Round) enterResultsLocked() {
	r.phase = domain.PhaseResults
	if !r.scored[r.index] {
		r.scored[r.index] = true
		question := r.questions[r.index]
		points := question.Points
		if points == 0 {
			points = 1
		}
		for _, p := range r.players {
			if rec, ok := r.ledger.get(r.index, p.ID); ok && rec.Correct {
				p.Score += points
			}
		}
	}
	r.broadcastLocked(Event{Type: EventPhase, Snapshot: r.snapshotLocked()})
}

// forceFillLocked synthesizes records for everyone who missed the deadline.
// The self player is marked as not answering; simulated players get a random
// pick that is correct with cfg.FillProbabilityCorrect.
func (r *Round) forceFillLocked() {
	question := r.questions[r.index]
	now := r.now()
	for _, p := range r.players {
		if r.ledger.has(r.index, p.ID) {
			continue
		}
		if p.Human {
			r.ledger.record(r.index, p.ID, domain.NoAnswer, false, now)
			continue
		}
		choice := pickOption(question, r.cfg.FillProbabilityCorrect, r.rnd)
		r.ledger.record(r.index, p.ID, choice, choice == question.CorrectIndex, now)
	}
}

// pickOption chooses the correct option with probability p, otherwise a
// uniformly random wrong option.
func pickOption(q domain.Question, p float64, rnd *rand.Rand) int {
	if rnd.Float64() < p {
		return q.CorrectIndex
	}
	wrong := rnd.Intn(len(q.Options) - 1)
	if wrong >= q.CorrectIndex {
		wrong++
	}
	return wrong
}

func (r *Round) playerLocked(playerID string) *domain.Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// SelfChoice returns the self player's pick for the current question, or
// NoAnswer when none was made yet.
func (r *Round) SelfChoice() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selfChoice
}

// SimulatedPlayerIDs lists the non-human roster members, in join order.
func (r *Round) SimulatedPlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if !p.Human {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// QuestionAt exposes a drawn question; the simulator needs the option count
// and answer key to fabricate a choice.
func (r *Round) QuestionAt(index int) (domain.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.questions) {
		return domain.Question{}, false
	}
	return r.questions[index], true
}

// ScoreFor returns a player's running score.
func (r *Round) ScoreFor(playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.playerLocked(playerID); p != nil {
		return p.Score
	}
	return 0
}

// RecordsFor returns the answer records for a question, in roster order.
func (r *Round) RecordsFor(questionIndex int) []domain.AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if questionIndex < 0 || questionIndex >= len(r.questions) {
		return nil
	}
	return r.ledger.recordsFor(questionIndex, r.players)
}

// Snapshot returns a read-only view of the round.
func (r *Round) Snapshot() domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Round) snapshotLocked() domain.RoundSnapshot {
	players := make([]domain.Player, len(r.players))
	for i, p := range r.players {
		players[i] = *p
	}
	return domain.RoundSnapshot{
		QuestionIndex:    r.index,
		TotalQuestions:   len(r.questions),
		Question:         r.questions[r.index],
		Phase:            r.phase,
		RemainingSeconds: r.remaining,
		Players:          players,
		Answers:          r.ledger.recordsFor(r.index, r.players),
	}
}

// Summary returns the frozen result once the round is complete.
func (r *Round) Summary() (domain.ResultSummary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summary == nil {
		return domain.ResultSummary{}, false
	}
	return *r.summary, true
}

// Subscribe returns a channel of round events plus a cancel function.
func (r *Round) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := Event{Type: EventPhase, Snapshot: r.snapshotLocked()}
	r.mu.Unlock()

	ch <- initial

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Round) broadcastLocked(ev Event) {
	for ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest update so a slow consumer never blocks the round.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
