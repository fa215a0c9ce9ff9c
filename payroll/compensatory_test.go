package payroll_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/payroll"
)

// With the default 44-hour week: dayHours = 44/6, a full day's accrual is
// dayHours/6 = 44/36, and the per-hour rate works out to 1/6.
const defaultCompensatoryDay = 44.0 / 36

func hours(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// =============================================================================
// SUNDAY SUPPRESSION
// =============================================================================

func TestCompensatoryHours_SundayRange_AlwaysZero(t *testing.T) {
	// GIVEN: A range containing a Sunday
	// THEN: Zero accrual regardless of hours - deliberate business rule,
	//       not an error path
	calc := newCalculator()
	rng := sundayRange()

	for _, h := range []float64{0, 1, 7.33, 8, 100} {
		accrued := calc.CompensatoryHours(context.Background(), hours(h), &rng)
		assert.True(t, accrued.IsZero(), "hours=%v", h)
	}
}

// =============================================================================
// ACCRUAL CURVE
// =============================================================================

func TestCompensatoryHours_MonotonicUpToDailyCap_ThenConstant(t *testing.T) {
	calc := newCalculator()
	rng := weekRange()
	ctx := context.Background()

	two := calc.CompensatoryHours(ctx, hours(2), &rng)
	four := calc.CompensatoryHours(ctx, hours(4), &rng)
	seven := calc.CompensatoryHours(ctx, hours(7), &rng)
	eight := calc.CompensatoryHours(ctx, hours(8), &rng)
	twenty := calc.CompensatoryHours(ctx, hours(20), &rng)

	// Non-decreasing up to the daily cap (44/6 ~ 7.33)...
	assert.True(t, two.LessThan(four))
	assert.True(t, four.LessThan(seven))

	// ...then constant: the clamp caps accrual at one day's worth per call.
	assert.InDelta(t, defaultCompensatoryDay, eight.InexactFloat64(), 1e-9)
	assert.True(t, eight.Equal(twenty))
}

func TestCompensatoryHours_PerHourRate(t *testing.T) {
	// 4 worked hours at the derived per-hour rate (1/6 under any limit).
	calc := newCalculator()
	rng := weekRange()

	accrued := calc.CompensatoryHours(context.Background(), hours(4), &rng)
	assert.InDelta(t, 4.0/6, accrued.InexactFloat64(), 1e-9)
}

func TestCompensatoryHours_ConfiguredWeeklyLimit(t *testing.T) {
	// GIVEN: WEEKLY_HOURS=36, so dayHours=6 and a full day accrues 1 hour
	source := config.NewSource(config.NewMemory(map[string]string{config.KeyWeeklyHours: "36"}))
	calc := payroll.NewCalculator(source)
	rng := weekRange()

	accrued := calc.CompensatoryHours(context.Background(), hours(10), &rng)
	assert.InDelta(t, 1, accrued.InexactFloat64(), 1e-9, "clamped to dayHours=6, times 1/6")
}

func TestCompensatoryHours_NonPositiveHours(t *testing.T) {
	calc := newCalculator()
	rng := weekRange()

	assert.True(t, calc.CompensatoryHours(context.Background(), decimal.Zero, &rng).IsZero())
	assert.True(t, calc.CompensatoryHours(context.Background(), hours(-3), &rng).IsZero())
}

func TestCompensatoryHours_NilRangeAccrues(t *testing.T) {
	// Without a range there is no Sunday to suppress on.
	calc := newCalculator()
	accrued := calc.CompensatoryHours(context.Background(), hours(4), nil)
	assert.False(t, accrued.IsZero())
}

// =============================================================================
// PRICING
// =============================================================================

func TestCompensatory_PricesHoursAtTariffTimesWorkers(t *testing.T) {
	calc := newCalculator()
	group := summary(3, 90, 120, map[string]float64{"OD": 1.0})
	rng := weekRange()

	result := calc.Compensatory(context.Background(), group, hours(4), group.PaysheetTariff, &rng)

	require.InDelta(t, 4.0/6, result.Hours.InexactFloat64(), 1e-9)
	assert.InDelta(t, (4.0/6)*90*3, result.Amount.InexactFloat64(), 1e-6)
}
