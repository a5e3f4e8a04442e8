package processors

import (
	"testing"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVestedShares(t *testing.T) {
	t.Parallel()

	award := models.EquityAward{
		Kind:           models.AwardKindOption,
		Quantity:       48_000,
		GrantDate:      date(2020, time.January, 1),
		CliffMonths:    12,
		DurationMonths: 48,
	}

	tests := []struct {
		name     string
		award    models.EquityAward
		asOf     time.Time
		expected int64
	}{
		{"before_start", award, date(2019, time.June, 1), 0},
		{"day_before_cliff", award, date(2020, time.December, 31), 0},
		{"at_cliff", award, date(2021, time.January, 1), 12_000},
		{"mid_schedule", award, date(2022, time.July, 1), 30_000},
		{"at_full_duration", award, date(2024, time.January, 1), 48_000},
		{"beyond_full_duration", award, date(2030, time.January, 1), 48_000},
		{
			name: "canceled_caps_ceiling",
			award: models.EquityAward{
				Quantity:       48_000,
				Canceled:       8_000,
				GrantDate:      date(2020, time.January, 1),
				CliffMonths:    12,
				DurationMonths: 48,
			},
			asOf:     date(2024, time.January, 1),
			expected: 40_000,
		},
		{
			name: "zero_duration_vests_at_start",
			award: models.EquityAward{
				Quantity:  10_000,
				GrantDate: date(2020, time.January, 1),
			},
			asOf:     date(2020, time.January, 1),
			expected: 10_000,
		},
		{
			name: "fully_canceled",
			award: models.EquityAward{
				Quantity:       10_000,
				Canceled:       10_000,
				GrantDate:      date(2020, time.January, 1),
				DurationMonths: 48,
			},
			asOf:     date(2030, time.January, 1),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VestedShares(tt.award, tt.asOf))
		})
	}
}

func TestVestedSharesMonotonic(t *testing.T) {
	t.Parallel()

	award := models.EquityAward{
		Quantity:       10_000,
		GrantDate:      date(2021, time.March, 15),
		CliffMonths:    6,
		DurationMonths: 36,
	}

	var previous int64
	for i := 0; i < 48; i++ {
		asOf := award.GrantDate.AddDate(0, i, 0)
		vested := VestedShares(award, asOf)
		assert.GreaterOrEqual(t, vested, previous, "vesting regressed at month %d", i)
		previous = vested
	}
	assert.Equal(t, award.Quantity, previous)
}

func TestMonthsBetweenDayOfMonth(t *testing.T) {
	t.Parallel()

	start := date(2022, time.January, 15)
	assert.Equal(t, 0, monthsBetween(start, date(2022, time.February, 14)))
	assert.Equal(t, 1, monthsBetween(start, date(2022, time.February, 15)))
	assert.Equal(t, 12, monthsBetween(start, date(2023, time.January, 15)))
	assert.Equal(t, 0, monthsBetween(start, date(2021, time.December, 31)))
}

func TestVestingStartOverridesGrantDate(t *testing.T) {
	t.Parallel()

	start := date(2021, time.June, 1)
	award := models.EquityAward{
		Quantity:       12_000,
		GrantDate:      date(2021, time.January, 1),
		VestingStart:   &start,
		DurationMonths: 12,
	}
	// Six months into the explicit schedule, not eleven into the grant.
	assert.Equal(t, int64(6_000), VestedShares(award, date(2021, time.December, 1)))
}
