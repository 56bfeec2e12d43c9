package game

import "errors"

var (
	ErrInvalidKey      = errors.New("invalid key")
	ErrGridTooSmall    = errors.New("grid too small")
	ErrRockPlacement   = errors.New("no valid rock placement")
	ErrLayoutExhausted = errors.New("level layout attempts exhausted")
	ErrNotRunning      = errors.New("match is not running")
	ErrBadSnapshot     = errors.New("malformed map snapshot")
)
