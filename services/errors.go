package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrSquadNameRequired      = errors.New("squad name is required")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrInvalidMatchStage      = errors.New("invalid match stage")
	ErrInvalidMatchStatus     = errors.New("invalid match status")
	ErrMatchNotEligible       = errors.New("match is not completed or finished")

	// Knockout configuration
	ErrKnockoutNotConfigured    = errors.New("tournament has no enabled knockout stage")
	ErrKnockoutAutoSeedDisabled = errors.New("automatic knockout seeding is disabled for this tournament")
	ErrInsufficientQualifiers   = errors.New("not enough qualifiers to fill the knockout stage")
	ErrGroupStageNotConfigured  = errors.New("tournament has no group definitions")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Entity-specific not-found (more context than ErrNotFound)
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrSquadNotFound      = errors.New("squad not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUserNotFound       = errors.New("user not found")
)
