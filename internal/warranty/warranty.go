// Package warranty computes remaining coverage days and classifies
// warranty status. All functions are pure; callers supply the reference
// date so evaluation is deterministic and testable.
package warranty

import (
	"math"
	"time"

	"github.com/Zlatonn/warranty-checker/internal/model"
)

// NearExpireDays is the boundary below which coverage counts as nearly
// expired. Items with at least this many days left are fully covered.
const NearExpireDays = 30

// DaysBetween returns the day distance from ref to target, ignoring
// time-of-day. Both instants are normalized to midnight UTC by calendar
// date before differencing, so two calls on the same calendar day always
// agree. Partial-day differences round toward the target.
func DaysBetween(ref, target time.Time) int {
	diff := midnight(target).Sub(midnight(ref))
	return int(math.Ceil(diff.Hours() / 24))
}

// Classify maps a raw day distance to the inclusive days-left count and
// the warranty state. The expiry date itself counts as one remaining day,
// so a non-negative raw distance is bumped by one; already-expired items
// keep their negative distance unchanged.
func Classify(raw int) (daysLeft int, state string) {
	daysLeft = raw
	if raw >= 0 {
		daysLeft = raw + 1
	}

	switch {
	case daysLeft >= NearExpireDays:
		state = model.StateWarranty
	case daysLeft >= 0:
		state = model.StateNearExpire
	default:
		state = model.StateExpired
	}
	return daysLeft, state
}

// Evaluate combines DaysBetween and Classify for an end date.
func Evaluate(now, endDate time.Time) (daysLeft int, state string) {
	return Classify(DaysBetween(now, endDate))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
