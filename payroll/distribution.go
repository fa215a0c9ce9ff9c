/*
Package payroll turns hour distributions into payroll and billing totals.

PURPOSE:
  This is the monetary core of the system. Given a worker group summary,
  an hour distribution, and a tariff, it computes:

  - per-hour-type amounts (hours x workers x tariff x multiplier)
  - compensatory-time accrual against the weekly limit
  - final payroll and billing totals per group, with the full-tariff and
    group-tariff billing overrides
  - batch aggregates across every group of an operation

CALCULATION TIERS (mirrors the error taxonomy in engine/errors.go):
  Fatal per group:  missing tariff or multiplier table
  Degraded:         missing multiplier entry, unknown hour code -> warn, skip
  Business branch:  Sunday suppression, overrides -> normal flow, not errors

SEE ALSO:
  - compensatory.go: Weekly-limit accrual
  - totals.go: Per-group aggregation and overrides
  - batch.go: Operation-wide orchestration
*/
package payroll

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/groups"
)

// Provenance tags recorded on festive hour types when the date range
// contains a Sunday and the run prices payroll. The arithmetic is the same
// as the non-Sunday branch; the tag exists for audit trails only.
const (
	CalcTypeDomingoOrdinaria = "domingo_ordinaria" // FOD, FON
	CalcTypeDomingoExtra     = "domingo_extra"     // FED, FEN
)

// =============================================================================
// RESULTS
// =============================================================================

// HourDetail is the audit record for one hour type: enough to reconstruct
// the amount (hours x workers x tariff x multiplier) from the result alone.
type HourDetail struct {
	Hours      decimal.Decimal `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Amount     decimal.Decimal `json:"amount"`

	// CalculationType is empty for ordinary runs; festive types in a
	// Sunday range carry domingo_ordinaria / domingo_extra together with
	// the limits that governed the week.
	CalculationType string          `json:"calculationType,omitempty"`
	WeeklyLimit     decimal.Decimal `json:"weeklyLimit,omitempty"`
	DailyLimit      decimal.Decimal `json:"dailyLimit,omitempty"`
}

// Details carries the per-run audit payload.
type Details struct {
	WorkerCount int                   `json:"workerCount"`
	Tariff      decimal.Decimal       `json:"tariff"`
	Hours       map[string]HourDetail `json:"hoursDetail"` // keyed by base code
}

// Result is the outcome of one hour-distribution run. Every numeric field
// is finite by construction.
type Result struct {
	TotalHours  decimal.Decimal `json:"totalHours"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Details     Details         `json:"details"`
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator prices hour distributions. It holds the configuration source
// for weekly limits; everything else arrives per call.
type Calculator struct {
	Limits *config.Source
}

func NewCalculator(limits *config.Source) *Calculator {
	return &Calculator{Limits: limits}
}

// Calculate prices an hour distribution for one group.
//
// Preconditions (fatal, naming the group): the tariff must be positive and
// the group must carry a multiplier table. This is the one place a missing
// configuration is fatal rather than degraded - a tariff-less group cannot
// produce a meaningful total.
//
// Per (code, hours>0) pair: the "H"-prefixed code maps to its base code,
// the multiplier key is the base code for payroll or FAC_<base> for
// billing, and amount = hours x workerCount x tariff x multiplier. A
// missing multiplier or unknown code skips that hour type with a warning.
//
// When rng contains a Sunday and mode is payroll, festive hour types are
// tagged with their domingo provenance and the range's weekly/daily
// limits. The tag never changes the arithmetic.
func (c *Calculator) Calculate(
	ctx context.Context,
	group groups.Summary,
	dist engine.HourDistribution,
	tariff decimal.Decimal,
	mode engine.Mode,
	rng *calendar.Range,
) (Result, error) {
	if !tariff.IsPositive() {
		return Result{}, engine.NewGroupError(group.GroupID, engine.ErrMissingTariff)
	}
	if group.Hours.IsEmpty() {
		return Result{}, engine.NewGroupError(group.GroupID, engine.ErrMissingMultiplierTable)
	}

	result := Result{
		TotalHours:  decimal.Zero,
		TotalAmount: decimal.Zero,
		Details: Details{
			WorkerCount: group.WorkerCount,
			Tariff:      tariff,
			Hours:       map[string]HourDetail{},
		},
	}

	sundayRange := mode == engine.ModePayroll && rng != nil && rng.HasSunday()
	var limits config.Limits
	if sundayRange {
		limits = c.Limits.LimitsFor(ctx, true)
	}

	workers := decimal.NewFromInt(int64(group.WorkerCount))

	for code, rawHours := range dist {
		if rawHours <= 0 {
			continue
		}
		hourType, ok := engine.ParseInputCode(code)
		if !ok {
			log.Printf("WARN: group %s: unknown hour type %q, skipping", group.GroupID, code)
			continue
		}
		multiplier, ok := group.Hours.Multiplier(hourType, mode)
		if !ok {
			log.Printf("WARN: group %s: no %s multiplier for %s, skipping",
				group.GroupID, mode, hourType)
			continue
		}

		hours := engine.FromFloat(rawHours, "hours "+code+" group "+group.GroupID)
		amount := hours.Mul(workers).Mul(tariff).Mul(multiplier)

		detail := HourDetail{Hours: hours, Multiplier: multiplier, Amount: amount}
		if sundayRange && hourType.IsFestive() {
			if hourType.IsExtra() {
				detail.CalculationType = CalcTypeDomingoExtra
			} else {
				detail.CalculationType = CalcTypeDomingoOrdinaria
			}
			detail.WeeklyLimit = limits.WeeklyHours
			detail.DailyLimit = limits.DailyHours
		}

		result.Details.Hours[hourType.Code()] = detail
		result.TotalHours = result.TotalHours.Add(hours)
		result.TotalAmount = result.TotalAmount.Add(amount)
	}

	return result, nil
}
