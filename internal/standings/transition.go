package standings

import (
	"math"

	"github.com/collegefest/champboard/internal/errors"
)

// maxCount bounds wins, losses, draws and their sum so each fits a 32-bit
// INTEGER column.
const maxCount = math.MaxInt32

// ScoreUpdate is an admin-submitted full replacement of a department's
// tally. Fields are float64 so that fractional or non-finite input can be
// rejected here rather than truncated while decoding.
type ScoreUpdate struct {
	Wins   float64
	Losses float64
	Draws  float64
	Points float64
	// AdditionalValue sets the event's tiebreak metric when non-nil. It may
	// be negative (goal difference, for example) but must be finite.
	AdditionalValue *float64
}

// Tally is a validated ScoreUpdate with its derived match count.
type Tally struct {
	Wins            int
	Losses          int
	Draws           int
	Matches         int
	Points          float64
	AdditionalValue *float64
}

// Apply validates u and derives Matches. Nothing is clamped or rounded.
func (u ScoreUpdate) Apply() (Tally, error) {
	wins, err := count("wins", u.Wins)
	if err != nil {
		return Tally{}, err
	}
	losses, err := count("losses", u.Losses)
	if err != nil {
		return Tally{}, err
	}
	draws, err := count("draws", u.Draws)
	if err != nil {
		return Tally{}, err
	}
	if err := nonNegative("points", u.Points); err != nil {
		return Tally{}, err
	}
	if u.Wins+u.Losses+u.Draws > maxCount {
		return Tally{}, errors.Validation("wins, losses and draws together are too large")
	}
	if u.AdditionalValue != nil && !finite(*u.AdditionalValue) {
		return Tally{}, errors.Validation("additional data value must be a finite number")
	}

	return Tally{
		Wins:            wins,
		Losses:          losses,
		Draws:           draws,
		Matches:         wins + losses + draws,
		Points:          u.Points,
		AdditionalValue: u.AdditionalValue,
	}, nil
}

// ValidatePlacement checks a podium entry: a positive position and
// finite, non-negative points.
func ValidatePlacement(position int, points float64) error {
	if position <= 0 {
		return errors.Validation("position must be a positive integer")
	}
	return nonNegative("points", points)
}

func count(field string, v float64) (int, error) {
	if err := nonNegative(field, v); err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, errors.Validationf("%s must be a whole number", field)
	}
	if v > maxCount {
		return 0, errors.Validationf("%s is too large", field)
	}
	return int(v), nil
}

func nonNegative(field string, v float64) error {
	if !finite(v) {
		return errors.Validationf("%s must be a finite number", field)
	}
	if v < 0 {
		return errors.Validationf("%s must be non-negative", field)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
