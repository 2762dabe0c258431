package tv

import "errors"

var (
	ErrInvalidEpisodeData   = errors.New("invalid episode data")
	ErrCoordinateOutOfRange = errors.New("episode coordinate out of range")
	ErrMalformedRecord      = errors.New("malformed series record")
	ErrInvalidAirdate       = errors.New("invalid airdate")
	ErrInvalidSeries        = errors.New("invalid series data")
)
