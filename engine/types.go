/*
Package engine provides the shared primitives of the payroll and billing
calculation engine.

PURPOSE:
  This package contains the domain vocabulary every calculator speaks:
  hour types, multiplier tables, hour distributions, and the safe decimal
  arithmetic layer. It has no knowledge of groups, calendars, or totals -
  those live in their own packages and build on these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - HourType: Closed enumeration of the 8 hour-type codes
  - Mode: Payroll vs billing multiplier selection
  - MultiplierTable: Tariff-attached multiplier lookup
  - HourDistribution: User-supplied hours per input code

HOUR-TYPE CODE FORMS:
  Every hour type has three spellings, all derived from the base code:

    base code    "OD"       multiplier key for payroll
    input code   "HOD"      key in a user-supplied hour distribution
    billing code "FAC_OD"   multiplier key for client billing

  The 8 base codes cover ordinary/extra x day/night x normal/festive:
  OD, ON, ED, EN, FOD, FON, FED, FEN.

DESIGN PRINCIPLES:
  1. Closed enumeration: hour types are a compile-time exhaustive set,
     not runtime string lookups with silent fallthrough.
  2. Precision: decimal.Decimal for every hour count and monetary amount.
  3. Finite by construction: floats only enter through safe.go, which
     coerces NaN/Inf to zero before a decimal is ever built.

SEE ALSO:
  - safe.go: The float-to-decimal choke point
  - errors.go: Error taxonomy for the calculators
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOUR TYPE - Closed enumeration of the 8 base codes
// =============================================================================

type HourType int

const (
	OrdinaryDay HourType = iota // OD
	OrdinaryNight
	ExtraDay
	ExtraNight
	FestiveOrdinaryDay // FOD
	FestiveOrdinaryNight
	FestiveExtraDay
	FestiveExtraNight
)

// AllHourTypes lists every hour type in declaration order.
// Iterating this slice is the exhaustive alternative to ranging over
// arbitrary string keys.
var AllHourTypes = []HourType{
	OrdinaryDay, OrdinaryNight, ExtraDay, ExtraNight,
	FestiveOrdinaryDay, FestiveOrdinaryNight, FestiveExtraDay, FestiveExtraNight,
}

var baseCodes = [...]string{"OD", "ON", "ED", "EN", "FOD", "FON", "FED", "FEN"}

// Code returns the base code ("OD" ... "FEN").
func (h HourType) Code() string { return baseCodes[h] }

// InputCode returns the "H"-prefixed form used in hour distributions.
func (h HourType) InputCode() string { return "H" + baseCodes[h] }

// BillingCode returns the "FAC_"-prefixed client-billing multiplier key.
func (h HourType) BillingCode() string { return "FAC_" + baseCodes[h] }

// IsFestive reports whether the hour type is one of the four festive
// (holiday-or-Sunday) codes.
func (h HourType) IsFestive() bool { return h >= FestiveOrdinaryDay }

// IsExtra reports whether the hour type is an overtime code.
func (h HourType) IsExtra() bool {
	return h == ExtraDay || h == ExtraNight || h == FestiveExtraDay || h == FestiveExtraNight
}

func (h HourType) String() string { return h.Code() }

// ParseInputCode maps an "H"-prefixed distribution key to its hour type.
// Matching is case-insensitive. Unknown codes return ok=false; the caller
// decides whether that is a warning or an error.
func ParseInputCode(code string) (HourType, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, h := range AllHourTypes {
		if c == h.InputCode() {
			return h, true
		}
	}
	return 0, false
}

// ParseBaseCode maps a base code ("OD" ... "FEN") to its hour type.
func ParseBaseCode(code string) (HourType, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, h := range AllHourTypes {
		if c == h.Code() {
			return h, true
		}
	}
	return 0, false
}

// =============================================================================
// MODE - Which side of the tariff a calculation prices
// =============================================================================

type Mode int

const (
	ModePayroll Mode = iota // worker wages, base-code multipliers
	ModeBilling             // client invoice, FAC_-prefixed multipliers
)

// Key returns the multiplier-table key for the hour type under this mode.
func (m Mode) Key(h HourType) string {
	if m == ModeBilling {
		return h.BillingCode()
	}
	return h.Code()
}

func (m Mode) String() string {
	if m == ModeBilling {
		return "billing"
	}
	return "payroll"
}

// =============================================================================
// MULTIPLIER TABLE - Tariff-attached multiplier lookup
// =============================================================================

// MultiplierTable holds the per-hour-type multipliers attached to a tariff,
// covering both the payroll keys (OD ... FEN) and the billing keys
// (FAC_OD ... FAC_FEN). A missing entry is non-fatal at lookup time: the
// hour type simply contributes zero and the calculator logs a warning.
type MultiplierTable struct {
	entries map[string]decimal.Decimal
}

// NewMultiplierTable builds a table from a raw tariff row. Values pass
// through the safe layer, so a NaN multiplier becomes zero rather than
// poisoning a total. Keys are normalized to upper case.
func NewMultiplierTable(raw map[string]float64) MultiplierTable {
	if len(raw) == 0 {
		return MultiplierTable{}
	}
	entries := make(map[string]decimal.Decimal, len(raw))
	for key, value := range raw {
		entries[strings.ToUpper(strings.TrimSpace(key))] = FromFloat(value, "multiplier "+key)
	}
	return MultiplierTable{entries: entries}
}

// Multiplier returns the multiplier for the hour type under the given mode.
func (t MultiplierTable) Multiplier(h HourType, mode Mode) (decimal.Decimal, bool) {
	d, ok := t.entries[mode.Key(h)]
	return d, ok
}

// IsEmpty reports whether the table carries no entries at all. An empty
// table on a group is a fatal configuration error (see calculator
// preconditions), unlike individual missing entries.
func (t MultiplierTable) IsEmpty() bool { return len(t.entries) == 0 }

// Len returns the number of entries, for diagnostics.
func (t MultiplierTable) Len() int { return len(t.entries) }

// =============================================================================
// HOUR DISTRIBUTION - User-supplied hours per input code
// =============================================================================

// HourDistribution maps "H"-prefixed input codes (HOD, HON, ... HFEN) to
// non-negative hour counts, e.g. {"HOD": 8, "HED": 2}. It is the raw,
// user-supplied form; code validation happens in the calculator.
type HourDistribution map[string]float64

// TotalHours sums every hour value in the distribution, regardless of
// whether a multiplier exists for it. This raw sum is what the full-tariff
// billing override charges against.
func (d HourDistribution) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for code, hours := range d {
		total = total.Add(FromFloat(hours, "hours "+code))
	}
	return total
}
