package ai

import "errors"

var (
	ErrEmptyResponse   = errors.New("model returned empty response")
	ErrInvalidResponse = errors.New("model returned unparseable response")
)
