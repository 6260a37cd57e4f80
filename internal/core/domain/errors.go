package domain

import "errors"

var (
	// ErrNotFound is returned when a lookup matched nothing. It is a legitimate
	// empty result, not a fault.
	ErrNotFound = errors.New("domain: not found")

	// ErrInvalidFeedback is returned for feedback values other than like or dislike.
	ErrInvalidFeedback = errors.New("domain: invalid feedback")

	// ErrInvalidArgument is returned when a required identifier is empty.
	ErrInvalidArgument = errors.New("domain: invalid argument")
)
