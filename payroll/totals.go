/*
totals.go - Per-group aggregation and billing overrides

PURPOSE:
  Combines the distribution results, additional-hours results, and
  compensatory results of one group into its final payroll and billing
  breakdown, then applies the billing overrides.

INCLUSION RULES (asymmetric on purpose):
  Payroll adds compensatory whenever the range is compensable (no Sunday),
  REGARDLESS of the group's compensatory flag. Billing adds it only when
  the flag is YES and the range is compensable. The asymmetry comes from
  the business domain; see the totals tests before changing it.

OVERRIDE ORDER:
  group_tariff replaces the billing total with the flat facturation tariff.
  full_tariff is applied last and wins over everything, recomputing billing
  as facturationTariff x totalBillingHours x workerCount.
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/groups"
)

// Breakdown is the final figure set for one side (payroll or billing) of
// a group: base, additional hours, holiday surcharge, compensatory, total.
type Breakdown struct {
	BaseAmount            decimal.Decimal `json:"baseAmount"`
	AdditionalHoursAmount decimal.Decimal `json:"additionalHoursAmount"`
	HolidayAmount         decimal.Decimal `json:"holidayAmount"`
	CompensatoryAmount    decimal.Decimal `json:"compensatoryAmount"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Details               Details         `json:"details"`
}

// GroupResult is the complete outcome for one worker group.
type GroupResult struct {
	GroupID     string    `json:"groupId"`
	Task        string    `json:"task"`
	WorkerCount int       `json:"workerCount"`
	Payroll     Breakdown `json:"payroll"`
	Billing     Breakdown `json:"billing"`
}

// TotalsInput gathers everything the aggregation needs for one group.
type TotalsInput struct {
	Group groups.Summary

	Payroll           Result
	Billing           Result
	PayrollAdditional Result
	BillingAdditional Result

	PayrollCompensatory CompensatoryResult
	BillingCompensatory CompensatoryResult

	// Compensable is true when the governing range contains no Sunday.
	Compensable bool

	// BillingHours is the raw hour sum of the billing distribution,
	// independent of multiplier coverage. The full-tariff override
	// charges against this figure, not the calculator's TotalHours.
	BillingHours decimal.Decimal
}

// AggregateTotals produces the final group result. See the package comment
// for the inclusion and override rules.
func AggregateTotals(in TotalsInput) GroupResult {
	payroll := newBreakdown(in.Payroll, in.PayrollAdditional)
	billing := newBreakdown(in.Billing, in.BillingAdditional)

	// Payroll: compensatory whenever compensable, flag ignored.
	if in.Compensable {
		payroll.CompensatoryAmount = in.PayrollCompensatory.Amount
		payroll.TotalAmount = payroll.TotalAmount.Add(in.PayrollCompensatory.Amount)
	}

	// Billing: compensatory only when the group opted in.
	if in.Compensable && in.Group.Flags.Compensatory.Enabled() {
		billing.CompensatoryAmount = in.BillingCompensatory.Amount
		billing.TotalAmount = billing.TotalAmount.Add(in.BillingCompensatory.Amount)
	}

	// Flat group rate: one figure for the whole group, hours ignored.
	if in.Group.Flags.GroupTariff.Enabled() {
		billing.TotalAmount = in.Group.FacturationTariff
	}

	// Full tariff wins over everything, applied last: flat rate x total
	// billing hours x workers, discarding the distribution-based amount.
	if in.Group.Flags.FullTariff.Enabled() {
		workers := decimal.NewFromInt(int64(in.Group.WorkerCount))
		billing.TotalAmount = in.Group.FacturationTariff.Mul(in.BillingHours).Mul(workers)
	}

	return GroupResult{
		GroupID:     in.Group.GroupID,
		Task:        in.Group.Task,
		WorkerCount: in.Group.WorkerCount,
		Payroll:     payroll,
		Billing:     billing,
	}
}

// newBreakdown splits a distribution result into base (ordinary codes) and
// holiday surcharge (festive codes), and adds the additional-hours amount.
func newBreakdown(base, additional Result) Breakdown {
	b := Breakdown{
		BaseAmount:            decimal.Zero,
		AdditionalHoursAmount: additional.TotalAmount,
		HolidayAmount:         decimal.Zero,
		CompensatoryAmount:    decimal.Zero,
		Details:               base.Details,
	}
	for code, detail := range base.Details.Hours {
		hourType, ok := engine.ParseBaseCode(code)
		if ok && hourType.IsFestive() {
			b.HolidayAmount = b.HolidayAmount.Add(detail.Amount)
		} else {
			b.BaseAmount = b.BaseAmount.Add(detail.Amount)
		}
	}
	b.TotalAmount = b.BaseAmount.Add(b.AdditionalHoursAmount).Add(b.HolidayAmount)
	return b
}
