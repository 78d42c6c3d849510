package domain

import "errors"

var (
	// ErrEmptyQuestionSet is returned when a round is started with no questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrEmptyRoster is returned when a round is started with no players.
	ErrEmptyRoster = errors.New("player roster is empty")
	// ErrNoSelfPlayer is returned when the roster has no human self player.
	ErrNoSelfPlayer = errors.New("roster has no self player")
	// ErrRoundNotFound is returned when acting on an unknown round ID.
	ErrRoundNotFound = errors.New("round not found")
	// ErrRoomNotFound is returned when a room code does not resolve.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when joining a room at capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomNotWaiting is returned when joining or starting a room past its lobby phase.
	ErrRoomNotWaiting = errors.New("room is not accepting players")
	// ErrNotEnoughPlayers is returned when starting a room round with fewer than two members.
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	// ErrSubjectNotFound indicates the requested question bank does not exist.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrInvalidRoomCode is returned for codes that are not four digits.
	ErrInvalidRoomCode = errors.New("invalid room code")
)

// Verdict is the outcome of an answer submission. Rejections are ordinary
// values, not errors; the caller decides whether to surface them.
type Verdict string

const (
	AnswerAccepted          Verdict = "accepted"
	RejectDuplicateAnswer   Verdict = "duplicate_answer"
	RejectPhaseNotAnswering Verdict = "phase_not_answering"
	RejectUnknownPlayer     Verdict = "unknown_player"
)

// Accepted reports whether the submission was recorded.
func (v Verdict) Accepted() bool { return v == AnswerAccepted }
