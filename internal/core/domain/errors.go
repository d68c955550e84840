package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotAdministrator   = errors.New("administrator privileges required")
	ErrPollNotFound       = errors.New("poll not found")
	ErrPollEnded          = errors.New("poll has already ended")
	ErrPollNotActive      = errors.New("poll is not open for voting")
	ErrInvalidTimeWindow  = errors.New("invalid poll time window")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrAlreadyRegistered  = errors.New("user is already a candidate in this poll")
	ErrRegistrationClosed = errors.New("candidate registration is closed for this poll")
	ErrInvalidSymbol      = errors.New("unknown candidate symbol")
	ErrAlreadyVoted       = errors.New("user has already voted in this poll")
	ErrNotVoted           = errors.New("user has not voted in this poll")
)
