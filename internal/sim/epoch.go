package sim

import (
	"time"

	"github.com/san-kum/solarsim/internal/physics"
	"github.com/soniakeys/meeus/v3/julian"
)

// Date converts elapsed simulated seconds into a calendar date counted from
// epoch.
func Date(epoch time.Time, elapsed float64) time.Time {
	jd := julian.TimeToJD(epoch) + elapsed/physics.Day
	return julian.JDToTime(jd)
}
