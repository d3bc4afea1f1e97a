package models

import (
	"testing"
	"time"
)

func TestFixtureStatusAt(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	f := Fixture{StartTime: start, EndTime: end}

	tests := []struct {
		name string
		now  time.Time
		want FixtureStatus
	}{
		{"before start", start.Add(-time.Minute), FixturePending},
		{"at start", start, FixtureHappening},
		{"midway", start.Add(time.Hour), FixtureHappening},
		{"at end", end, FixtureCompleted},
		{"after end", end.Add(time.Hour), FixtureCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.StatusAt(tt.now); got != tt.want {
				t.Errorf("StatusAt() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFixtureStatusAt_MissingTimesArePending(t *testing.T) {
	f := Fixture{EndTime: time.Now()}
	if got := f.StatusAt(time.Now().Add(time.Hour)); got != FixturePending {
		t.Errorf("expected pending, got %s", got)
	}
}

func TestDefaultLabel(t *testing.T) {
	if got := DefaultLabel("C_CYCLE"); got != "C-CYCLE" {
		t.Errorf("DefaultLabel() = %q", got)
	}
	if got := DefaultLabel("CSE"); got != "CSE" {
		t.Errorf("DefaultLabel() = %q", got)
	}
}

func TestSportEventDisplayName(t *testing.T) {
	tests := map[string]string{
		"TABLE_TENNIS": "Table Tennis",
		"cricket":      "Cricket",
		"Tug_of__War":  "Tug Of War",
	}
	for in, want := range tests {
		if got := (SportEvent{Name: in}).DisplayName(); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenderValid(t *testing.T) {
	if !GenderWomen.Valid() {
		t.Error("women should be valid")
	}
	if Gender("other").Valid() {
		t.Error("unknown gender should be invalid")
	}
}
