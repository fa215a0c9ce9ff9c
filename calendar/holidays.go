/*
holidays.go - Colombian national holiday table

PURPOSE:
  Builds the holiday set for a given year. Colombian holidays come in
  three kinds:

  1. Fixed dates, observed where they fall (New Year, Labour Day, ...)
  2. "Emiliani" holidays (Ley 51 de 1983), observed the following Monday
     when they do not already fall on one
  3. Easter-derived dates (Holy Thursday, Good Friday, Ascension, Corpus
     Christi, Sacred Heart), computed from the Gregorian computus; the
     last three are themselves Monday-shifted

MEMOIZATION:
  The table for a year never changes once computed, so it is built once
  per process and cached behind a mutex. Callers go through holidayName.
*/
package calendar

import (
	"sync"
	"time"
)

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

// Observed where they fall.
var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Año Nuevo"},
	{time.May, 1, "Día del Trabajo"},
	{time.July, 20, "Día de la Independencia"},
	{time.August, 7, "Batalla de Boyacá"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Navidad"},
}

// Shifted to the following Monday unless already a Monday.
var emilianiHolidays = []fixedHoliday{
	{time.January, 6, "Día de los Reyes Magos"},
	{time.March, 19, "Día de San José"},
	{time.June, 29, "San Pedro y San Pablo"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.October, 12, "Día de la Raza"},
	{time.November, 1, "Todos los Santos"},
	{time.November, 11, "Independencia de Cartagena"},
}

var (
	holidayMu    sync.Mutex
	holidayCache = map[int]map[time.Time]string{}
)

// holidayName looks up a normalized day in the memoized table for its year.
func holidayName(day time.Time) (string, bool) {
	holidayMu.Lock()
	table, ok := holidayCache[day.Year()]
	if !ok {
		table = buildHolidayTable(day.Year())
		holidayCache[day.Year()] = table
	}
	holidayMu.Unlock()

	name, ok := table[day]
	return name, ok
}

// HolidaysForYear returns a copy of the holiday table for a year, keyed by
// normalized day. Exposed for reporting and tests.
func HolidaysForYear(year int) map[time.Time]string {
	holidayMu.Lock()
	table, ok := holidayCache[year]
	if !ok {
		table = buildHolidayTable(year)
		holidayCache[year] = table
	}
	holidayMu.Unlock()

	out := make(map[time.Time]string, len(table))
	for d, n := range table {
		out[d] = n
	}
	return out
}

func buildHolidayTable(year int) map[time.Time]string {
	table := make(map[time.Time]string, 18)

	for _, h := range fixedHolidays {
		table[time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC)] = h.name
	}
	for _, h := range emilianiHolidays {
		d := nextMonday(time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC))
		table[d] = h.name
	}

	easter := easterSunday(year)
	table[easter.AddDate(0, 0, -3)] = "Jueves Santo"
	table[easter.AddDate(0, 0, -2)] = "Viernes Santo"
	// Ascension (E+39), Corpus Christi (E+60) and Sacred Heart (E+68) are
	// observed the following Monday: E+43, E+64, E+71.
	table[easter.AddDate(0, 0, 43)] = "Ascensión del Señor"
	table[easter.AddDate(0, 0, 64)] = "Corpus Christi"
	table[easter.AddDate(0, 0, 71)] = "Sagrado Corazón"

	return table
}

// nextMonday returns d when it is a Monday, otherwise the next Monday.
func nextMonday(d time.Time) time.Time {
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// easterSunday computes Gregorian Easter via the anonymous computus
// (Meeus/Jones/Butcher).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
