package returns

import "errors"

var (
	// ErrNotFound indicates the return does not exist.
	ErrNotFound = errors.New("return not found")
	// ErrUnknownField indicates an unrecognised status field name.
	ErrUnknownField = errors.New("unknown status field")
	// ErrChangeNotAllowed indicates the lifecycle policy rejected the change.
	ErrChangeNotAllowed = errors.New("status change not allowed")
	// ErrChallengeNotFound indicates the challenge expired, was cancelled,
	// or never existed.
	ErrChallengeNotFound = errors.New("confirmation challenge not found")
	// ErrChallengeMismatch indicates the entered word does not match. The
	// challenge stays open so the operator may retry.
	ErrChallengeMismatch = errors.New("confirmation word does not match")
)
