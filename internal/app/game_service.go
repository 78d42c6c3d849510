package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/game"
	"tahadi-quiz-service/internal/questions"
)

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, subjectID string) (domain.Bank, error)
}

// RoomStore abstracts how pre-round lobbies are kept (in-memory, Redis, etc).
type RoomStore interface {
	Create(room domain.Room, hostDisplayName string) (domain.Room, error)
	Get(code string) (domain.Room, bool)
	Join(code, playerID, displayName string) (domain.Room, error)
	SetStatus(code string, status domain.RoomStatus) error
	Delete(code string)
}

// ProfileStore persists cumulative user points across sessions.
type ProfileStore interface {
	AddPoints(ctx context.Context, userID string, points int) (int, error)
	Points(ctx context.Context, userID string) (int, error)
}

// Config carries the game tunables handed down from configuration.
type Config struct {
	TimePerQuestion        int
	GraceDelay             time.Duration
	ProbabilityCorrect     float64
	FillProbabilityCorrect float64
	MinOpponentDelay       time.Duration
	MaxOpponentDelay       time.Duration
}

// opponentNames seeds display names for synthesized solo-mode opponents.
var opponentNames = []string{"أحمد", "سارة", "خالد", "نور", "ليلى", "عمر"}

// GameService contains the round lifecycle use cases: solo and room rounds,
// answer routing, event fan-out, and point awards on completion.
type GameService struct {
	banks    BankRepository
	rooms    RoomStore
	profiles ProfileStore
	cfg      Config

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu     sync.RWMutex
	rounds map[string]*roundEntry
}

type roundEntry struct {
	round    *game.Round
	selfID   string
	roomCode string
}

func NewGameService(banks BankRepository, rooms RoomStore, profiles ProfileStore, cfg Config) *GameService {
	return &GameService{
		banks:    banks,
		rooms:    rooms,
		profiles: profiles,
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		rounds:   make(map[string]*roundEntry),
	}
}

// SoloOptions selects the question draw and the fake opposition for a solo round.
type SoloOptions struct {
	SubjectID  string
	Difficulty domain.Difficulty
	Count      int
	Opponents  int
}

// StartSolo draws a question set and runs a round of the local player against
// synthesized opponents.
func (s *GameService) StartSolo(ctx context.Context, userID, displayName string, opts SoloOptions) (string, error) {
	bank, err := s.banks.GetBank(ctx, opts.SubjectID)
	if err != nil {
		return "", err
	}

	drawn := questions.Draw(bank, opts.Difficulty, opts.Count, s.drawRand())
	if len(drawn) == 0 {
		return "", domain.ErrEmptyQuestionSet
	}

	if opts.Opponents <= 0 {
		opts.Opponents = 1
	}
	if opts.Opponents > len(opponentNames) {
		opts.Opponents = len(opponentNames)
	}
	roster := make([]domain.Player, 0, opts.Opponents+1)
	roster = append(roster, domain.Player{ID: userID, DisplayName: displayName, Human: true})
	for i := 0; i < opts.Opponents; i++ {
		roster = append(roster, domain.Player{
			ID:          fmt.Sprintf("bot-%d", i+1),
			DisplayName: opponentNames[i],
		})
	}

	roundID := s.newRoundID()
	return roundID, s.launchRound(roundID, "", drawn, roster, userID, true)
}

// CreateRoom opens a lobby for a friend challenge. The subject must resolve
// before the room is created so a bad setup fails here, not at round start.
func (s *GameService) CreateRoom(ctx context.Context, hostID, hostName string, room domain.Room) (domain.Room, error) {
	if _, err := s.banks.GetBank(ctx, room.SubjectID); err != nil {
		return domain.Room{}, err
	}
	room.HostID = hostID
	return s.rooms.Create(room, hostName)
}

// JoinRoom adds a player to a waiting room by code.
func (s *GameService) JoinRoom(_ context.Context, code, playerID, displayName string) (domain.Room, error) {
	return s.rooms.Join(code, playerID, displayName)
}

// Room returns the current lobby state.
func (s *GameService) Room(_ context.Context, code string) (domain.Room, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

// StartRoomRound begins the round for a full lobby. Only the host may start,
// and at least two members must have joined. The roster is the confirmed
// membership in join order; no players are invented.
func (s *GameService) StartRoomRound(ctx context.Context, code, callerID string) (string, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	if room.Status != domain.RoomWaiting {
		return "", domain.ErrRoomNotWaiting
	}
	if callerID != room.HostID {
		return "", domain.ErrNoSelfPlayer
	}
	if len(room.Members) < 2 {
		return "", domain.ErrNotEnoughPlayers
	}

	bank, err := s.banks.GetBank(ctx, room.SubjectID)
	if err != nil {
		return "", err
	}
	drawn := questions.Draw(bank, room.Difficulty, room.QuestionCount, s.drawRand())
	if len(drawn) == 0 {
		return "", domain.ErrEmptyQuestionSet
	}

	roster := make([]domain.Player, len(room.Members))
	for i, m := range room.Members {
		roster[i] = domain.Player{ID: m.PlayerID, DisplayName: m.DisplayName, Human: true}
	}

	if err := s.rooms.SetStatus(code, domain.RoomPlaying); err != nil {
		return "", err
	}
	if err := s.launchRound(code, code, drawn, roster, callerID, false); err != nil {
		_ = s.rooms.SetStatus(code, domain.RoomWaiting)
		return "", err
	}
	return code, nil
}

func (s *GameService) launchRound(roundID, roomCode string, drawn []domain.Question, roster []domain.Player, selfID string, simulate bool) error {
	round, err := game.NewRound(drawn, roster, selfID, game.Config{
		TimePerQuestion:        s.cfg.TimePerQuestion,
		GraceDelay:             s.cfg.GraceDelay,
		FillProbabilityCorrect: s.cfg.FillProbabilityCorrect,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rounds[roundID] = &roundEntry{round: round, selfID: selfID, roomCode: roomCode}
	s.mu.Unlock()

	var scheduler game.Scheduler
	if simulate {
		scheduler = game.NewSimulator(game.SimulatorConfig{
			ProbabilityCorrect: s.cfg.ProbabilityCorrect,
			MinDelay:           s.cfg.MinOpponentDelay,
			MaxDelay:           s.cfg.MaxOpponentDelay,
		})
	}
	round.Start(scheduler)
	go s.awardOnComplete(roundID)
	return nil
}

// awardOnComplete waits for the round summary, credits the self player's
// points, and closes out the room if the round came from one.
func (s *GameService) awardOnComplete(roundID string) {
	entry, ok := s.entry(roundID)
	if !ok {
		return
	}
	events, cancel := entry.round.Subscribe()
	defer cancel()

	if summary, done := entry.round.Summary(); done {
		s.settle(entry, summary)
		return
	}
	for ev := range events {
		if ev.Type != game.EventSummary || ev.Summary == nil {
			continue
		}
		s.settle(entry, *ev.Summary)
		return
	}
}

func (s *GameService) settle(entry *roundEntry, summary domain.ResultSummary) {
	score := summary.Scores[entry.selfID]
	if score > 0 {
		if _, err := s.profiles.AddPoints(context.Background(), entry.selfID, score); err != nil {
			log.Printf("award points for %s: %v", entry.selfID, err)
		}
	}
	if entry.roomCode != "" {
		_ = s.rooms.SetStatus(entry.roomCode, domain.RoomFinished)
	}
}

// SubmitAnswer routes a submission into the round controller.
func (s *GameService) SubmitAnswer(roundID, playerID string, optionIndex int) (domain.Verdict, error) {
	entry, ok := s.entry(roundID)
	if !ok {
		return "", domain.ErrRoundNotFound
	}
	return entry.round.SubmitAnswer(playerID, optionIndex), nil
}

// Advance moves the round past the current results phase.
func (s *GameService) Advance(roundID string) error {
	entry, ok := s.entry(roundID)
	if !ok {
		return domain.ErrRoundNotFound
	}
	entry.round.Advance()
	return nil
}

// Snapshot returns the round's current view.
func (s *GameService) Snapshot(roundID string) (domain.RoundSnapshot, error) {
	entry, ok := s.entry(roundID)
	if !ok {
		return domain.RoundSnapshot{}, domain.ErrRoundNotFound
	}
	return entry.round.Snapshot(), nil
}

// Subscribe returns a channel of round events for a live round.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(roundID string) (<-chan game.Event, func(), error) {
	entry, ok := s.entry(roundID)
	if !ok {
		return nil, nil, domain.ErrRoundNotFound
	}
	ch, cancel := entry.round.Subscribe()
	return ch, cancel, nil
}

// Summary returns the frozen result of a completed round.
func (s *GameService) Summary(roundID string) (domain.ResultSummary, error) {
	entry, ok := s.entry(roundID)
	if !ok {
		return domain.ResultSummary{}, domain.ErrRoundNotFound
	}
	summary, done := entry.round.Summary()
	if !done {
		return domain.ResultSummary{}, domain.ErrRoundNotFound
	}
	return summary, nil
}

// EndRound stops the round's timers and drops it from the registry.
func (s *GameService) EndRound(roundID string) {
	s.mu.Lock()
	entry, ok := s.rounds[roundID]
	if ok {
		delete(s.rounds, roundID)
	}
	s.mu.Unlock()
	if ok {
		entry.round.Stop()
		if entry.roomCode != "" {
			s.rooms.Delete(entry.roomCode)
		}
	}
}

// Points exposes the persisted total for the profile screen.
func (s *GameService) Points(ctx context.Context, userID string) (int, error) {
	return s.profiles.Points(ctx, userID)
}

func (s *GameService) entry(roundID string) (*roundEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.rounds[roundID]
	return entry, ok
}

// drawRand hands out an independent source per draw; Draw mutates its source
// so sharing one across concurrent rounds would race.
func (s *GameService) drawRand() *rand.Rand {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return rand.New(rand.NewSource(s.rnd.Int63()))
}

func (s *GameService) newRoundID() string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return fmt.Sprintf("solo-%06d", s.rnd.Intn(1000000))
}
