package entity

import "errors"

var (
	ErrInvalidURL  = errors.New("invalid list url")
	ErrSessionInit = errors.New("browser session init failed")
	ErrFetch       = errors.New("page fetch failed")
	ErrChallenge   = errors.New("anti-bot challenge not cleared")

	ErrTaskNotFound    = errors.New("task not found")
	ErrDuplicateTaskID = errors.New("duplicate task id")
	ErrTaskFinalized   = errors.New("task already finished")
)
