package tv

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// AirdateLayout is the only accepted airdate format.
const AirdateLayout = "2006-01-02"

// Upper bounds for an episode coordinate. Season rows are allocated up to the
// highest episode number, so coordinates are capped.
const (
	MaxSeason  = 1000
	MaxEpisode = 10000
)

// Episode represents a single episode of a TV series.
// An episode is identified by its (Season, Number) coordinate.
type Episode struct {
	Season  int               `json:"season"`
	Number  int               `json:"number"`
	Name    mo.Option[string] `json:"name"`
	Airdate mo.Option[string] `json:"airdate"`
	Summary mo.Option[string] `json:"summary"`
	Runtime int               `json:"runtime"`
}

// NewEpisode creates an episode at the given coordinate.
// An empty airdate leaves the airdate unset.
func NewEpisode(season, number int, name, airdate string, runtime int) (*Episode, error) {
	ep := &Episode{
		Season:  season,
		Number:  number,
		Name:    mo.EmptyableToOption(name),
		Runtime: runtime,
	}
	if err := ep.validate(); err != nil {
		return nil, err
	}
	if airdate != "" {
		if err := ep.SetAirdate(airdate); err != nil {
			return nil, err
		}
	}
	return ep, nil
}

// SetAirdate sets the airdate if it is a valid YYYY-MM-DD date.
// On error the current airdate is left unchanged.
func (e *Episode) SetAirdate(date string) error {
	if !ValidAirdate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidAirdate, date)
	}
	e.Airdate = mo.Some(date)
	return nil
}

// SetRuntime sets the runtime in minutes.
func (e *Episode) SetRuntime(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("%w: negative runtime %d", ErrInvalidEpisodeData, minutes)
	}
	e.Runtime = minutes
	return nil
}

// Code returns the SxxEyy label for the episode.
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Number)
}

// Equal reports whether every attribute of e and other match.
func (e Episode) Equal(other Episode) bool {
	return e == other
}

// ValidAirdate reports whether date is a calendar date in YYYY-MM-DD form.
func ValidAirdate(date string) bool {
	if len(date) != len(AirdateLayout) {
		return false
	}
	_, err := time.Parse(AirdateLayout, date)
	return err == nil
}

func (e *Episode) hasValidCoordinate() bool {
	return e.Season >= 1 && e.Season <= MaxSeason &&
		e.Number >= 1 && e.Number <= MaxEpisode
}

// validate checks the fields the season structure depends on.
func (e *Episode) validate() error {
	if !e.hasValidCoordinate() {
		return fmt.Errorf("%w: coordinate %s", ErrInvalidEpisodeData, e.Code())
	}
	if e.Runtime < 0 {
		return fmt.Errorf("%w: negative runtime %d", ErrInvalidEpisodeData, e.Runtime)
	}
	return nil
}
