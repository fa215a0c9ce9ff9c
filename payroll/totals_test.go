package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/groups"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func resultWith(hours map[string]payroll.HourDetail) payroll.Result {
	total := decimal.Zero
	totalHours := decimal.Zero
	for _, d := range hours {
		total = total.Add(d.Amount)
		totalHours = totalHours.Add(d.Hours)
	}
	return payroll.Result{
		TotalHours:  totalHours,
		TotalAmount: total,
		Details:     payroll.Details{Hours: hours},
	}
}

func detail(hours, amount float64) payroll.HourDetail {
	return payroll.HourDetail{
		Hours:  decimal.NewFromFloat(hours),
		Amount: decimal.NewFromFloat(amount),
	}
}

func compResult(amount float64) payroll.CompensatoryResult {
	return payroll.CompensatoryResult{
		Hours:  decimal.NewFromFloat(1),
		Amount: decimal.NewFromFloat(amount),
	}
}

// =============================================================================
// BASE / HOLIDAY SPLIT
// =============================================================================

func TestAggregateTotals_SplitsBaseAndHolidayAmounts(t *testing.T) {
	// GIVEN: Ordinary OD hours and festive FOD hours
	// THEN: OD feeds baseAmount, FOD feeds holidayAmount
	group := summary(2, 100, 120, map[string]float64{"OD": 1})

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group: group,
		Payroll: resultWith(map[string]payroll.HourDetail{
			"OD":  detail(8, 1600),
			"FOD": detail(4, 1400),
		}),
		Billing: resultWith(nil),
	})

	assert.InDelta(t, 1600, gr.Payroll.BaseAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1400, gr.Payroll.HolidayAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 3000, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9)
}

func TestAggregateTotals_AdditionalHoursIncluded(t *testing.T) {
	group := summary(2, 100, 120, map[string]float64{"OD": 1})

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:             group,
		Payroll:           resultWith(map[string]payroll.HourDetail{"OD": detail(8, 1600)}),
		PayrollAdditional: resultWith(map[string]payroll.HourDetail{"ED": detail(2, 250)}),
		Billing:           resultWith(nil),
	})

	assert.InDelta(t, 250, gr.Payroll.AdditionalHoursAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1850, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9)
}

// =============================================================================
// COMPENSATORY ASYMMETRY
//
// Payroll adds compensatory whenever the week is compensable, REGARDLESS of
// the group flag. Billing adds it only when the flag is YES. This asymmetry
// is deliberate per the business domain: changing either branch must be a
// conscious decision, and these tests exist to make that change loud.
// =============================================================================

func TestAggregateTotals_CompensatoryFlagNo_PayrollStillAccrues(t *testing.T) {
	// Scenario: compensatory=NO on a no-Sunday week.
	group := summary(1, 100, 100, map[string]float64{"OD": 1})
	group.Flags.Compensatory = groups.FlagNo

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:               group,
		Payroll:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		Billing:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		PayrollCompensatory: compResult(122.22),
		BillingCompensatory: compResult(122.22),
		Compensable:         true,
	})

	assert.InDelta(t, 922.22, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9,
		"payroll adds compensatory even with flag NO")
	assert.InDelta(t, 800, gr.Billing.TotalAmount.InexactFloat64(), 1e-9,
		"billing ignores compensatory with flag NO")
}

func TestAggregateTotals_CompensatoryFlagYes_BothSidesAccrue(t *testing.T) {
	group := summary(1, 100, 100, map[string]float64{"OD": 1})
	group.Flags.Compensatory = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:               group,
		Payroll:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		Billing:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		PayrollCompensatory: compResult(100),
		BillingCompensatory: compResult(100),
		Compensable:         true,
	})

	assert.InDelta(t, 900, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 900, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
}

func TestAggregateTotals_NotCompensable_NeitherSideAccrues(t *testing.T) {
	// A Sunday week is not compensable: neither side adds compensatory,
	// whatever the flag says.
	group := summary(1, 100, 100, map[string]float64{"OD": 1})
	group.Flags.Compensatory = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:               group,
		Payroll:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		Billing:             resultWith(map[string]payroll.HourDetail{"OD": detail(8, 800)}),
		PayrollCompensatory: compResult(100),
		BillingCompensatory: compResult(100),
		Compensable:         false,
	})

	assert.InDelta(t, 800, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 800, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
}

// =============================================================================
// SCENARIO C - Full-tariff billing override
// =============================================================================

func TestAggregateTotals_FullTariff_OverridesBillingTotal(t *testing.T) {
	// GIVEN: full_tariff=YES, facturation tariff 50, 3 workers, a billing
	//        distribution summing to 40 hours
	// THEN: Billing is forced to 50*40*3=6000 irrespective of multipliers
	group := summary(3, 40, 50, map[string]float64{"OD": 1})
	group.Flags.FullTariff = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:        group,
		Payroll:      resultWith(map[string]payroll.HourDetail{"OD": detail(40, 4800)}),
		Billing:      resultWith(map[string]payroll.HourDetail{"OD": detail(40, 9999)}),
		BillingHours: decimal.NewFromInt(40),
	})

	assert.InDelta(t, 6000, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 4800, gr.Payroll.TotalAmount.InexactFloat64(), 1e-9,
		"payroll is untouched by the billing override")
}

func TestAggregateTotals_FullTariff_AppliedLast_WinsOverCompensatory(t *testing.T) {
	// The override discards the distribution-based amount entirely,
	// compensatory included.
	group := summary(3, 40, 50, map[string]float64{"OD": 1})
	group.Flags.FullTariff = groups.FlagYes
	group.Flags.Compensatory = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:               group,
		Payroll:             resultWith(nil),
		Billing:             resultWith(map[string]payroll.HourDetail{"OD": detail(40, 9999)}),
		BillingCompensatory: compResult(500),
		Compensable:         true,
		BillingHours:        decimal.NewFromInt(40),
	})

	assert.InDelta(t, 6000, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
}

// =============================================================================
// GROUP-TARIFF OVERRIDE
// =============================================================================

func TestAggregateTotals_GroupTariff_FlatBillingRate(t *testing.T) {
	// group_tariff=YES charges the flat facturation tariff for the whole
	// group, regardless of the hour distribution.
	group := summary(4, 100, 2500, map[string]float64{"OD": 1})
	group.Flags.GroupTariff = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:   group,
		Payroll: resultWith(nil),
		Billing: resultWith(map[string]payroll.HourDetail{"OD": detail(40, 9999)}),
	})

	assert.InDelta(t, 2500, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
}

func TestAggregateTotals_FullTariffWinsOverGroupTariff(t *testing.T) {
	group := summary(2, 100, 50, map[string]float64{"OD": 1})
	group.Flags.GroupTariff = groups.FlagYes
	group.Flags.FullTariff = groups.FlagYes

	gr := payroll.AggregateTotals(payroll.TotalsInput{
		Group:        group,
		Payroll:      resultWith(nil),
		Billing:      resultWith(nil),
		BillingHours: decimal.NewFromInt(10),
	})

	require.InDelta(t, 50*10*2, gr.Billing.TotalAmount.InexactFloat64(), 1e-9)
}
