package models

import "errors"

var (
	ErrEmptyTitle       = errors.New("title is empty")
	ErrKeywordsNotFound = errors.New("keywords not found")
	ErrJobNotFound      = errors.New("job not found")
	ErrIndexDisabled    = errors.New("catalog index is disabled")
)
