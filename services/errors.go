package services

import "errors"

// Shared errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamNameConflict = errors.New("team name is already in use")
	ErrTeamNotFound     = errors.New("team not found")

	ErrMatchNotFound       = errors.New("match not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrInvalidQuarterPlan  = errors.New("durations must match quarters and be positive")
	ErrNotEnoughTeams      = errors.New("at least two teams are required")
	ErrMatchAlreadyDone    = errors.New("match is already finished")
	ErrInvalidTeamSide     = errors.New("team side must be A or B")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrExportUploadMissing = errors.New("export upload is not configured")
)
