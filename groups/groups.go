/*
Package groups normalizes raw scheduling and tariff records into worker
group summaries.

PURPOSE:
  A worker group is the unit of calculation: the workers who share one
  schedule, one tariff, and one task inside an operation. The scheduling
  and tariff CRUD layer hands this package raw join rows; Summarize turns
  them into immutable Summary values that every downstream calculator
  consumes read-only.

OPERATIONS:
  Summarize:      raw rows -> []Summary (worker counts, decimal tariffs,
                  multiplier tables, ISO week number)
  FindByCriteria: filter summaries by exact field match, case-insensitive
                  for strings, nested fields addressed by dotted path
  Analyze:        pure reduction (totals, unique tasks)

DESIGN NOTE:
  Criteria matching runs over a closed accessor map instead of reflection.
  Every addressable field is named explicitly; an unknown criteria key
  matches nothing and logs a warning, never panics.

SEE ALSO:
  - payroll: Consumes Summary values
*/
package groups

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// FLAGS - YES/NO toggles carried on tariff rows
// =============================================================================

type Flag string

const (
	FlagYes Flag = "YES"
	FlagNo  Flag = "NO"
)

// Enabled reports whether the flag is YES, case-insensitively. Any other
// value (including empty) counts as NO.
func (f Flag) Enabled() bool { return strings.EqualFold(string(f), string(FlagYes)) }

// =============================================================================
// RAW INPUT - What the scheduling/tariff layer supplies
// =============================================================================

// Schedule is the raw scheduling slice of a group.
type Schedule struct {
	DateStart time.Time
	DateEnd   time.Time
	TimeStart string // "06:00"
	TimeEnd   string // "14:00"
	Task      string
	TariffID  string
}

// TariffDetails is the raw tariff slice of a group: rates, the multiplier
// table, the agreed-hour baseline, and the override flags.
type TariffDetails struct {
	CostCenter        string
	FacturationUnit   string
	UnitOfMeasure     string
	Multipliers       map[string]float64
	PaysheetTariff    float64
	FacturationTariff float64
	AgreedHours       float64

	FullTariff             Flag
	Compensatory           Flag
	GroupTariff            Flag
	AlternativePaidService Flag
	SettlePayment          Flag
}

// RawGroup is one scheduling + tariff join row with its worker roster.
type RawGroup struct {
	ID       string
	Site     string
	SubSite  string
	Workers  []string
	Schedule Schedule
	Tariff   TariffDetails
}

// =============================================================================
// SUMMARY - Normalized, immutable group view
// =============================================================================

// Flags carries the group override toggles.
type Flags struct {
	FullTariff             Flag
	Compensatory           Flag
	GroupTariff            Flag
	AlternativePaidService Flag
	SettlePayment          Flag
}

// TimeRange is the daily shift window, kept as-is for reporting.
type TimeRange struct {
	Start string
	End   string
}

// Summary is the normalized view of one worker group. Immutable once
// produced; calculators read it, never write it.
type Summary struct {
	GroupID         string
	Task            string
	Site            string
	SubSite         string
	CostCenter      string
	FacturationUnit string
	UnitOfMeasure   string

	WorkerCount int
	Workers     []string

	PaysheetTariff    decimal.Decimal
	FacturationTariff decimal.Decimal
	AgreedHours       decimal.Decimal
	Hours             engine.MultiplierTable

	DateRange  calendar.Range
	TimeRange  TimeRange
	WeekNumber int

	Flags Flags
}

// Summarize normalizes raw groups. Worker counts come from the roster
// length, tariffs and the multiplier table pass through the safe decimal
// layer, and the week number is derived from the schedule start using the
// ISO rule (weeks start Monday, first week holds at least 4 days).
func Summarize(raws []RawGroup) []Summary {
	summaries := make([]Summary, 0, len(raws))
	for _, raw := range raws {
		s := Summary{
			GroupID:         raw.ID,
			Task:            raw.Schedule.Task,
			Site:            raw.Site,
			SubSite:         raw.SubSite,
			CostCenter:      raw.Tariff.CostCenter,
			FacturationUnit: raw.Tariff.FacturationUnit,
			UnitOfMeasure:   raw.Tariff.UnitOfMeasure,

			WorkerCount: len(raw.Workers),
			Workers:     append([]string(nil), raw.Workers...),

			PaysheetTariff:    engine.FromFloat(raw.Tariff.PaysheetTariff, "paysheet tariff "+raw.ID),
			FacturationTariff: engine.FromFloat(raw.Tariff.FacturationTariff, "facturation tariff "+raw.ID),
			AgreedHours:       engine.FromFloat(raw.Tariff.AgreedHours, "agreed hours "+raw.ID),
			Hours:             engine.NewMultiplierTable(raw.Tariff.Multipliers),

			DateRange:  calendar.NewRange(raw.Schedule.DateStart, raw.Schedule.DateEnd),
			TimeRange:  TimeRange{Start: raw.Schedule.TimeStart, End: raw.Schedule.TimeEnd},
			WeekNumber: calendar.WeekNumber(raw.Schedule.DateStart),

			Flags: Flags{
				FullTariff:             raw.Tariff.FullTariff,
				Compensatory:           raw.Tariff.Compensatory,
				GroupTariff:            raw.Tariff.GroupTariff,
				AlternativePaidService: raw.Tariff.AlternativePaidService,
				SettlePayment:          raw.Tariff.SettlePayment,
			},
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// =============================================================================
// CRITERIA FILTERING
// =============================================================================

// Criteria maps field paths to expected values, e.g.
// {"unit_of_measure": "JORNAL"} or {"flags.compensatory": "YES"}.
// String comparison is case-insensitive.
type Criteria map[string]string

// fieldAccessors is the closed set of addressable summary fields.
var fieldAccessors = map[string]func(Summary) string{
	"group_id":                      func(s Summary) string { return s.GroupID },
	"task":                          func(s Summary) string { return s.Task },
	"site":                          func(s Summary) string { return s.Site },
	"sub_site":                      func(s Summary) string { return s.SubSite },
	"cost_center":                   func(s Summary) string { return s.CostCenter },
	"facturation_unit":              func(s Summary) string { return s.FacturationUnit },
	"unit_of_measure":               func(s Summary) string { return s.UnitOfMeasure },
	"week_number":                   func(s Summary) string { return strconv.Itoa(s.WeekNumber) },
	"flags.full_tariff":             func(s Summary) string { return string(s.Flags.FullTariff) },
	"flags.compensatory":            func(s Summary) string { return string(s.Flags.Compensatory) },
	"flags.group_tariff":            func(s Summary) string { return string(s.Flags.GroupTariff) },
	"flags.alternative_paid_service": func(s Summary) string { return string(s.Flags.AlternativePaidService) },
	"flags.settle_payment":          func(s Summary) string { return string(s.Flags.SettlePayment) },
}

// FindByCriteria returns the summaries matching every criteria entry.
// Unknown field paths match nothing (warned once per call).
func FindByCriteria(summaries []Summary, criteria Criteria) []Summary {
	var matched []Summary
	for _, s := range summaries {
		if matchesCriteria(s, criteria) {
			matched = append(matched, s)
		}
	}
	return matched
}

func matchesCriteria(s Summary, criteria Criteria) bool {
	for path, want := range criteria {
		accessor, ok := fieldAccessors[strings.ToLower(path)]
		if !ok {
			log.Printf("WARN: unknown criteria field %q", path)
			return false
		}
		if !strings.EqualFold(accessor(s), want) {
			return false
		}
	}
	return true
}

// =============================================================================
// ANALYSIS - Pure reduction over summaries
// =============================================================================

type Analysis struct {
	TotalGroups  int
	TotalWorkers int
	Groups       []Summary
	UniqueTasks  []string
}

// Analyze reduces summaries to headline figures. No side effects.
func Analyze(summaries []Summary) Analysis {
	a := Analysis{TotalGroups: len(summaries), Groups: summaries}
	seen := map[string]bool{}
	for _, s := range summaries {
		a.TotalWorkers += s.WorkerCount
		if s.Task != "" && !seen[s.Task] {
			seen[s.Task] = true
			a.UniqueTasks = append(a.UniqueTasks, s.Task)
		}
	}
	sort.Strings(a.UniqueTasks)
	return a
}
