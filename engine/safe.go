/*
safe.go - The single float-to-decimal choke point

PURPOSE:
  Monetary totals must never contain NaN or Infinity. Rather than guarding
  every addition ad hoc, every float64 that enters the engine passes through
  FromFloat here, and every division that could blow up goes through
  SafeDiv. decimal.Decimal cannot represent a non-finite value (and
  decimal.NewFromFloat panics on one), so once a value is a decimal it is
  finite for the rest of the pipeline.

DEGRADATION CONTRACT:
  A non-finite operand is coerced to zero, logged as a warning with its
  origin, and counted. It is never fatal: partial bad input should not
  block an otherwise valid calculation.

SEE ALSO:
  - types.go: NewMultiplierTable and HourDistribution use these guards
*/
package engine

import (
	"log"
	"math"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

var nonFiniteSeen atomic.Int64

// FromFloat converts a float64 to a decimal, coercing NaN and +/-Inf to
// zero. The context string identifies the origin in the warning log line.
func FromFloat(v float64, context string) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		nonFiniteSeen.Add(1)
		log.Printf("WARN: non-finite value for %s, using 0", context)
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// SafeDiv divides a by b, returning zero (with a warning) when b is zero.
// Used for agreed-hours proration, where a zero baseline is a data issue
// rather than a reason to abort.
func SafeDiv(a, b decimal.Decimal, context string) decimal.Decimal {
	if b.IsZero() {
		nonFiniteSeen.Add(1)
		log.Printf("WARN: division by zero for %s, using 0", context)
		return decimal.Zero
	}
	return a.Div(b)
}

// NonFiniteCount returns how many non-finite or undefined operands the
// process has coerced to zero. Exposed for diagnostics and tests.
func NonFiniteCount() int64 { return nonFiniteSeen.Load() }
