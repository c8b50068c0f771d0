package runtime

import "errors"

var (
	ErrRuntime       = errors.New("runtime error")
	ErrCommandFailed = errors.New("command failed")
	ErrEmptyCommand  = errors.New("empty command")
)
