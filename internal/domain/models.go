package domain

import "time"

// Difficulty tags a question with its intended level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question models an MCQ question. CorrectIndex always points into Options.
type Question struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Points       int        `json:"points"` // defaults to 1 if zero
	Difficulty   Difficulty `json:"difficulty"`
}

// Bank is the per-subject question catalog backing round draws.
type Bank struct {
	SubjectID string     `json:"subjectId"`
	Questions []Question `json:"questions"`
}

// Subject describes a catalog entry shown to players during setup.
type Subject struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"questionsCount"`
}

// Player is one roster member for a single round. Exactly one player per
// roster is the local human ("self").
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Human       bool   `json:"human"`
	Score       int    `json:"score"`
}

// NoAnswer marks a forced fill where the player never picked an option.
const NoAnswer = -1

// AnswerRecord is the immutable outcome of one player answering one question.
type AnswerRecord struct {
	PlayerID   string    `json:"playerId"`
	Selected   int       `json:"selected"` // NoAnswer when the timer expired unanswered
	AnsweredAt time.Time `json:"answeredAt"`
	Correct    bool      `json:"correct"`
}

// Phase is the sub-state within a single question.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseResults   Phase = "results"
	PhaseComplete  Phase = "complete"
)

// RoundSnapshot is a read-only view of the round for subscribers. The
// current question travels with it, answer key included: the controller runs
// next to its presentation layer, which reveals the key in the results phase.
type RoundSnapshot struct {
	QuestionIndex    int            `json:"questionIndex"`
	TotalQuestions   int            `json:"totalQuestions"`
	Question         Question       `json:"question"`
	Phase            Phase          `json:"phase"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Players          []Player       `json:"players"`
	Answers          []AnswerRecord `json:"answers"`
}

// PlayerResult is one ranked row of a finished round.
type PlayerResult struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

// ResultSummary is the terminal outcome handed to the leaderboard layer.
type ResultSummary struct {
	Scores         map[string]int `json:"scores"`
	Ranking        []PlayerResult `json:"ranking"`
	SelfID         string         `json:"selfId"`
	SelfCorrect    int            `json:"selfCorrect"`
	TotalQuestions int            `json:"totalQuestions"`
}

// RoomStatus tracks a room through its lifecycle.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// RoomMember is one confirmed join, ordered by join time.
type RoomMember struct {
	PlayerID    string    `json:"playerId"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Room is a pre-round lobby keyed by a short numeric code.
type Room struct {
	Code          string       `json:"code"`
	HostID        string       `json:"hostId"`
	SubjectID     string       `json:"subjectId"`
	Difficulty    Difficulty   `json:"difficulty"`
	QuestionCount int          `json:"questionCount"`
	MaxPlayers    int          `json:"maxPlayers"`
	Members       []RoomMember `json:"members"`
	Status        RoomStatus   `json:"status"`
}
