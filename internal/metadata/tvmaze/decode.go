// Package tvmaze maps TVmaze show documents onto library series.
package tvmaze

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/slipstream/showguide/internal/library/tv"
)

// Decoder turns show documents into series.
type Decoder struct {
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewDecoder creates a new decoder.
func NewDecoder(logger zerolog.Logger) *Decoder {
	v := validator.New()

	// Report JSON field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Decoder{
		validate: v,
		logger:   logger.With().Str("component", "tvmaze").Logger(),
	}
}

// Decode reads a show document and builds its series.
func (d *Decoder) Decode(r io.Reader) (*tv.Series, error) {
	var rec ShowRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", tv.ErrMalformedRecord, err)
	}
	return d.ToSeries(&rec)
}

// DecodeBytes is Decode for an in-memory document.
func (d *Decoder) DecodeBytes(data []byte) (*tv.Series, error) {
	return d.Decode(bytes.NewReader(data))
}

// ToSeries validates a record and converts it into a series.
// Shape violations fail with tv.ErrMalformedRecord; a null entry in the
// episode list fails with tv.ErrInvalidEpisodeData.
func (d *Decoder) ToSeries(rec *ShowRecord) (*tv.Series, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: empty document", tv.ErrMalformedRecord)
	}
	if err := d.check(rec); err != nil {
		return nil, fmt.Errorf("%w: show: %s", tv.ErrMalformedRecord, err)
	}

	info := tv.Info{
		Name:      rec.Name,
		Language:  rec.Language,
		Genres:    rec.Genres,
		Premiered: rec.Premiered,
		Summary:   StripMarkup(rec.Summary),
	}
	if rec.Rating != nil {
		info.Rating = rec.Rating.Average
	}
	if rec.Network != nil {
		info.Network = rec.Network.Name
	}

	var episodes []*tv.Episode
	if rec.Embedded != nil && rec.Embedded.Episodes != nil {
		episodes = make([]*tv.Episode, len(rec.Embedded.Episodes))
		for i, er := range rec.Embedded.Episodes {
			if er == nil {
				continue
			}
			if err := d.check(er); err != nil {
				return nil, fmt.Errorf("%w: episode %d: %s", tv.ErrMalformedRecord, i, err)
			}
			episodes[i] = toEpisode(er)
		}
	}

	series, err := tv.NewSeries(info, episodes)
	if err != nil {
		return nil, err
	}

	d.logger.Debug().
		Str("name", series.Name).
		Int("seasons", series.Seasons().Count()).
		Int("episodes", series.EpisodeCount()).
		Msg("Decoded show")

	return series, nil
}

func toEpisode(er *EpisodeRecord) *tv.Episode {
	return &tv.Episode{
		Season:  er.Season,
		Number:  er.Number,
		Name:    mo.EmptyableToOption(er.Name),
		Airdate: mo.EmptyableToOption(er.Airdate),
		Summary: mo.EmptyableToOption(StripMarkup(er.Summary)),
		Runtime: er.Runtime,
	}
}

// check runs struct validation and flattens field errors into one message.
func (d *Decoder) check(s any) error {
	err := d.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}
