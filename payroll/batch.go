/*
batch.go - Operation-wide orchestration

PURPOSE:
  Runs the full calculation pipeline for every worker group of an
  operation and sums the results. Groups are independent (no shared
  mutable state), so they fan out concurrently; the final summation is
  plain commutative addition, so completion order never changes totals.

PARTIAL FAILURE:
  A fatal fault on one group (missing tariff, missing multiplier table)
  is logged and that group is skipped - it is simply absent from
  GroupResults. A malformed group must never block payroll for the rest
  of an operation.
*/
package payroll

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/groups"
)

// BatchInput is one operation's worth of work: the group roster, the
// user-supplied hour distribution per group, optional additional hours per
// group, and the operation date range.
type BatchInput struct {
	Groups          []groups.Summary
	Distributions   map[string]engine.HourDistribution
	AdditionalHours map[string]engine.HourDistribution
	Range           calendar.Range
}

// BatchResult is the JSON-serializable aggregate. Totals are finite by
// construction; a group that failed fatally is absent from GroupResults.
type BatchResult struct {
	RunID        string          `json:"runId"`
	TotalPayroll decimal.Decimal `json:"totalPayroll"`
	TotalBilling decimal.Decimal `json:"totalBilling"`
	GroupResults []GroupResult   `json:"groupResults"`
}

// Orchestrator drives the per-group pipeline.
type Orchestrator struct {
	Calc *Calculator
}

func NewOrchestrator(calc *Calculator) *Orchestrator {
	return &Orchestrator{Calc: calc}
}

// CalculateTotals runs every group concurrently and sums payroll and
// billing totals. Per-group faults are logged and skipped.
func (o *Orchestrator) CalculateTotals(ctx context.Context, in BatchInput) BatchResult {
	results := make([]*GroupResult, len(in.Groups))

	var wg sync.WaitGroup
	for i, group := range in.Groups {
		wg.Add(1)
		go func(i int, group groups.Summary) {
			defer wg.Done()
			gr, err := o.calculateGroup(ctx, group, in)
			if err != nil {
				log.Printf("WARN: skipping group %s: %v", group.GroupID, err)
				return
			}
			results[i] = gr
		}(i, group)
	}
	wg.Wait()

	batch := BatchResult{
		RunID:        uuid.NewString(),
		TotalPayroll: decimal.Zero,
		TotalBilling: decimal.Zero,
	}
	for _, gr := range results {
		if gr == nil {
			continue
		}
		batch.TotalPayroll = batch.TotalPayroll.Add(gr.Payroll.TotalAmount)
		batch.TotalBilling = batch.TotalBilling.Add(gr.Billing.TotalAmount)
		batch.GroupResults = append(batch.GroupResults, *gr)
	}
	return batch
}

// calculateGroup runs the full pipeline for one group: payroll and billing
// distribution runs, additional-hours runs (prorated against the agreed
// baseline), compensatory accrual, and totals aggregation.
func (o *Orchestrator) calculateGroup(ctx context.Context, group groups.Summary, in BatchInput) (*GroupResult, error) {
	rng := o.rangeFor(group, in)
	dist := in.Distributions[group.GroupID]

	payrollRes, err := o.Calc.Calculate(ctx, group, dist, group.PaysheetTariff, engine.ModePayroll, &rng)
	if err != nil {
		return nil, err
	}
	billingRes, err := o.Calc.Calculate(ctx, group, dist, group.FacturationTariff, engine.ModeBilling, &rng)
	if err != nil {
		return nil, err
	}

	var payrollAdd, billingAdd Result
	if additional := in.AdditionalHours[group.GroupID]; len(additional) > 0 {
		payrollAdd, err = o.Calc.Calculate(ctx, group, additional,
			additionalRate(group.PaysheetTariff, group.AgreedHours), engine.ModePayroll, &rng)
		if err != nil {
			return nil, err
		}
		billingAdd, err = o.Calc.Calculate(ctx, group, additional,
			additionalRate(group.FacturationTariff, group.AgreedHours), engine.ModeBilling, &rng)
		if err != nil {
			return nil, err
		}
	}

	compensable := !rng.HasSunday()
	payrollComp := o.Calc.Compensatory(ctx, group, payrollRes.TotalHours, group.PaysheetTariff, &rng)
	billingComp := o.Calc.Compensatory(ctx, group, billingRes.TotalHours, group.FacturationTariff, &rng)

	gr := AggregateTotals(TotalsInput{
		Group:               group,
		Payroll:             payrollRes,
		Billing:             billingRes,
		PayrollAdditional:   payrollAdd,
		BillingAdditional:   billingAdd,
		PayrollCompensatory: payrollComp,
		BillingCompensatory: billingComp,
		Compensable:         compensable,
		BillingHours:        dist.TotalHours(),
	})
	return &gr, nil
}

// rangeFor prefers the group's own schedule range; groups without one fall
// back to the operation range.
func (o *Orchestrator) rangeFor(group groups.Summary, in BatchInput) calendar.Range {
	if !group.DateRange.IsZero() {
		return group.DateRange
	}
	return in.Range
}

// additionalRate prorates additional hours against the agreed-hour
// baseline: tariff / agreedHours per hour when a baseline exists,
// otherwise the tariff as-is.
func additionalRate(tariff, agreedHours decimal.Decimal) decimal.Decimal {
	if agreedHours.IsPositive() {
		return engine.SafeDiv(tariff, agreedHours, "additional-hours proration")
	}
	return tariff
}
