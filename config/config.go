/*
Package config resolves the named configuration values the engine reads.

PURPOSE:
  The engine depends on exactly two externally configured values:

    WEEKLY_HOURS         weekly hour ceiling for ranges without a Sunday (default 44)
    WEEKLY_HOURS_SUNDAY  weekly hour ceiling for ranges containing a Sunday (default 48)

  Both are fetched by name from a key-value store. Absence or a malformed
  value falls back to the default rather than failing - configuration reads
  must never block a payroll run.

MEMOIZATION:
  Source caches each resolved value per name, so a batch over many groups
  sharing a date range pays one store read, not one per group. Reads are
  idempotent, so the cache is a convenience, not a correctness requirement.

TESTING:
  Memory implements Store over a plain map; tests inject deterministic
  fixtures without touching process-wide state.

SEE ALSO:
  - store/sqlite: The production Store implementation
*/
package config

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// Names of the configuration values the engine reads.
const (
	KeyWeeklyHours       = "WEEKLY_HOURS"
	KeyWeeklyHoursSunday = "WEEKLY_HOURS_SUNDAY"
)

var (
	DefaultWeeklyHours       = decimal.NewFromInt(44)
	DefaultWeeklyHoursSunday = decimal.NewFromInt(48)

	sixWorkdays = decimal.NewFromInt(6)
)

// Store is the external key-value configuration read. Implementations must
// be safe for concurrent use; reads are side-effect-free and idempotent.
type Store interface {
	// Value returns the raw value for a name, with ok=false when absent.
	Value(ctx context.Context, name string) (string, bool, error)
}

// =============================================================================
// WEEKLY LIMITS
// =============================================================================

// Limits carries the weekly hour ceiling and the daily ceiling derived
// from it (weekly / 6, a six-workday week).
type Limits struct {
	WeeklyHours decimal.Decimal
	DailyHours  decimal.Decimal
}

// NewLimits derives the daily ceiling from a weekly one.
func NewLimits(weekly decimal.Decimal) Limits {
	return Limits{WeeklyHours: weekly, DailyHours: weekly.Div(sixWorkdays)}
}

// =============================================================================
// SOURCE - Memoizing resolver over a Store
// =============================================================================

// Source resolves named values against a Store with per-name memoization.
type Source struct {
	store Store

	mu    sync.Mutex
	cache map[string]decimal.Decimal
}

func NewSource(store Store) *Source {
	return &Source{store: store, cache: map[string]decimal.Decimal{}}
}

// LimitsFor returns the weekly/daily limits governing a date range. Ranges
// containing a Sunday use WEEKLY_HOURS_SUNDAY, all others WEEKLY_HOURS.
func (s *Source) LimitsFor(ctx context.Context, rangeHasSunday bool) Limits {
	if rangeHasSunday {
		return NewLimits(s.value(ctx, KeyWeeklyHoursSunday, DefaultWeeklyHoursSunday))
	}
	return NewLimits(s.value(ctx, KeyWeeklyHours, DefaultWeeklyHours))
}

// WeeklyHours returns the plain (non-Sunday) weekly limit. The compensatory
// calculator uses this directly, since Sunday ranges never accrue.
func (s *Source) WeeklyHours(ctx context.Context) decimal.Decimal {
	return s.value(ctx, KeyWeeklyHours, DefaultWeeklyHours)
}

func (s *Source) value(ctx context.Context, name string, fallback decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	if v, ok := s.cache[name]; ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	resolved := fallback
	if s.store != nil {
		raw, ok, err := s.store.Value(ctx, name)
		switch {
		case err != nil:
			log.Printf("WARN: config read %s failed, using default %s: %v", name, fallback, err)
		case ok:
			if d, perr := decimal.NewFromString(raw); perr == nil {
				resolved = d
			} else {
				log.Printf("WARN: config value %s=%q is not numeric, using default %s", name, raw, fallback)
			}
		}
	}

	s.mu.Lock()
	s.cache[name] = resolved
	s.mu.Unlock()
	return resolved
}

// Invalidate drops the memoized values. Called after a settings write so
// the next batch re-reads the store.
func (s *Source) Invalidate() {
	s.mu.Lock()
	s.cache = map[string]decimal.Decimal{}
	s.mu.Unlock()
}

// =============================================================================
// MEMORY STORE - Deterministic fixture for tests and defaults
// =============================================================================

// Memory is a map-backed Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: map[string]string{}}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Value(_ context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *Memory) Set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}
