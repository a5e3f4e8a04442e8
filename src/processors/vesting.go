package processors

import (
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
)

// VestedShares computes the vested quantity of an award as of a date.
//
// Before the cliff nothing vests. From the cliff onward vesting is
// linear in completed calendar months: floor(granted * min(1, elapsed /
// duration)). At or after the full duration the award is fully vested.
// The result is always clamped to [0, granted - canceled], so it is
// monotonically non-decreasing in asOf and depends on nothing but its
// inputs.
func VestedShares(award models.EquityAward, asOf time.Time) int64 {
	ceiling := award.Quantity - award.Canceled
	if ceiling <= 0 {
		return 0
	}

	start := award.VestingStartDate()
	if asOf.Before(start) {
		return 0
	}

	// A zero-duration schedule vests in full at the start date.
	if award.DurationMonths <= 0 {
		return ceiling
	}

	elapsed := monthsBetween(start, asOf)
	if elapsed < award.CliffMonths {
		return 0
	}
	if elapsed >= award.DurationMonths {
		return ceiling
	}

	vested := award.Quantity * int64(elapsed) / int64(award.DurationMonths)
	if vested > ceiling {
		vested = ceiling
	}
	if vested < 0 {
		return 0
	}
	return vested
}

// monthsBetween counts complete calendar months from start to end,
// day-of-month aware: one month has elapsed only once the same day of
// the following month is reached.
func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
