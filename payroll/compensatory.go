/*
compensatory.go - Compensatory time accrual

PURPOSE:
  Workers accrue compensatory time (time-off entitlement) from worked
  hours, derived from the weekly hour limit. The derivation chain:

    weeklyLimit        configured WEEKLY_HOURS (default 44)
    dayHours           weeklyLimit / 6       one workday
    compensatoryDay    dayHours / 6          one day's full accrual
    perHour            compensatoryDay / dayHours

  Input hours are clamped to dayHours before multiplying: one call prices
  one scheduled day, so accrual per call never exceeds compensatoryDay.
  This clamp is part of the contract, not an implementation detail.

SUNDAY RULE:
  A week containing a Sunday accrues nothing - the Sunday premium already
  compensates it. This is a deliberate business rule, an expected branch
  of normal operation, never logged as an error.
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/groups"
)

var six = decimal.NewFromInt(6)

// CompensatoryResult carries accrued compensatory hours and their priced
// amount for one side (payroll or billing) of a group calculation.
type CompensatoryResult struct {
	Hours  decimal.Decimal `json:"hours"`
	Amount decimal.Decimal `json:"amount"`
}

// CompensatoryHours computes accrued compensatory time for worked hours.
// A range containing a Sunday returns zero unconditionally. Otherwise the
// input is clamped to a single day's hours and multiplied by the per-hour
// accrual rate derived from the weekly limit.
func (c *Calculator) CompensatoryHours(ctx context.Context, hours decimal.Decimal, rng *calendar.Range) decimal.Decimal {
	if rng != nil && rng.HasSunday() {
		return decimal.Zero
	}
	if !hours.IsPositive() {
		return decimal.Zero
	}

	weekly := c.Limits.WeeklyHours(ctx)
	if !weekly.IsPositive() {
		return decimal.Zero
	}
	dayHours := weekly.Div(six)
	compensatoryDay := dayHours.Div(six)
	perHour := compensatoryDay.Div(dayHours)

	if hours.GreaterThan(dayHours) {
		hours = dayHours
	}
	return hours.Mul(perHour)
}

// Compensatory prices accrued compensatory time for a group at the given
// tariff: amount = hours x tariff x workerCount.
func (c *Calculator) Compensatory(
	ctx context.Context,
	group groups.Summary,
	workedHours decimal.Decimal,
	tariff decimal.Decimal,
	rng *calendar.Range,
) CompensatoryResult {
	accrued := c.CompensatoryHours(ctx, workedHours, rng)
	workers := decimal.NewFromInt(int64(group.WorkerCount))
	return CompensatoryResult{
		Hours:  accrued,
		Amount: accrued.Mul(tariff).Mul(workers),
	}
}
