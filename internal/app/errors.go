package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateURL    = errors.New("a job with this URL already exists")
	ErrNoProfile       = errors.New("no profile yet, run 'jobscout profile init'")
	ErrNoResume        = errors.New("no resume yet, run 'jobscout resume add'")
)
