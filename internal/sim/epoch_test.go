package sim

import (
	"testing"
	"time"

	"github.com/san-kum/solarsim/internal/physics"
)

func TestDate(t *testing.T) {
	j2000 := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

	got := Date(j2000, physics.Day)
	want := time.Date(2000, time.January, 2, 12, 0, 0, 0, time.UTC)
	if d := got.Sub(want); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("got %v, want %v", got, want)
	}

	year := Date(j2000, 366*physics.Day)
	if year.Year() != 2001 || year.YearDay() != 1 {
		t.Errorf("expected 2001-01-01 after a leap year, got %v", year)
	}
}
