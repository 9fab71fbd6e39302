package contest

import "errors"

// Sentinel kinds for competition lifecycle errors.
var (
	ErrCompetitionActive = errors.New("a competition is already active")
	ErrNoCompetition     = errors.New("no active competition")
	ErrTargetNotFound    = errors.New("no competition entry for that user")
	ErrAlreadyVoted      = errors.New("already voted in this competition")
)
