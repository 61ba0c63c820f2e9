package balance

import "errors"

var (
	// ErrConfiguration is returned for an unusable match count or deck size.
	ErrConfiguration = errors.New("invalid simulation configuration")
	// ErrEmptyPool is returned when there is nothing to draw from.
	ErrEmptyPool = errors.New("empty card pool")
)
