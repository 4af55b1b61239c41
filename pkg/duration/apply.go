package duration

import (
	"math"
	"time"
)

// Conversion constants for carrying a fractional remainder into the next unit.
// They are calendar approximations, not calendar-exact.
const (
	DaysInYear           = 365
	DaysInMonth          = 30
	DaysInWeek           = 7
	HoursInDay           = 24
	MinutesInHour        = 60
	SecondsInMinute      = 60
	MillisecondsInSecond = 1000
)

// epsilon below which a fractional remainder is treated as zero.
const epsilon = 0.000001

// maxYears bounds how far a single component can move a timestamp. Larger
// integral parts saturate at the equivalent count of their own unit, which
// keeps every result representable by time.Time and moving in the
// component's direction.
const maxYears = 1_000_000_000

// Saturation limits per unit, derived from maxYears.
const (
	maxYearCount   = maxYears
	maxMonthCount  = maxYears * 12
	maxDayCount    = maxYears * 366
	maxHourCount   = maxDayCount * HoursInDay
	maxMinuteCount = maxHourCount * MinutesInHour
	maxSecondCount = maxMinuteCount * SecondsInMinute
)

// Apply adds d to start and returns the end timestamp.
//
// Components are applied from years down to seconds. For each present
// component the integral part (floor) is added in its own unit. A non-zero
// fractional remainder is carried once into the next finer unit and floored
// again; anything below that is discarded:
//
//	years   -> days   (365)
//	months  -> days   (30)
//	weeks   -> days (x7), remainder -> hours (24)
//	days    -> hours  (24)
//	hours   -> minutes (60)
//	minutes -> seconds (60)
//	seconds -> milliseconds (1000)
//
// Adding years or months clamps the day to the length of the target month.
// Hours, minutes and seconds are added as whole days plus a remainder, so
// large counts behave like the same span written in days. An integral part
// beyond a billion years' worth of its unit saturates at that bound.
// The UTC offset of start is preserved.
func (d Duration) Apply(start time.Time) time.Time {
	zone, offset := start.Zone()
	fixed := time.FixedZone(zone, offset)
	t := start.In(fixed)

	if v, ok := d.Years(); ok {
		t = addMonths(t, count(v, maxYearCount)*12)
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.AddDate(0, 0, integral(DaysInYear*frac))
		}
	}

	if v, ok := d.Months(); ok {
		t = addMonths(t, count(v, maxMonthCount))
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.AddDate(0, 0, integral(DaysInMonth*frac))
		}
	}

	if v, ok := d.Weeks(); ok {
		weeksAsDays := v * DaysInWeek
		t = t.AddDate(0, 0, count(weeksAsDays, maxDayCount))
		if frac := fractional(weeksAsDays); aboutNotEqual(frac, 0) {
			t = t.Add(time.Duration(integral(HoursInDay*frac)) * time.Hour)
		}
	}

	if v, ok := d.Days(); ok {
		t = t.AddDate(0, 0, count(v, maxDayCount))
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.Add(time.Duration(integral(HoursInDay*frac)) * time.Hour)
		}
	}

	if v, ok := d.Hours(); ok {
		t = addClock(t, count(v, maxHourCount), time.Hour)
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.Add(time.Duration(integral(MinutesInHour*frac)) * time.Minute)
		}
	}

	if v, ok := d.Minutes(); ok {
		t = addClock(t, count(v, maxMinuteCount), time.Minute)
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.Add(time.Duration(integral(SecondsInMinute*frac)) * time.Second)
		}
	}

	if v, ok := d.Seconds(); ok {
		t = addClock(t, count(v, maxSecondCount), time.Second)
		if frac := fractional(v); aboutNotEqual(frac, 0) {
			t = t.Add(time.Duration(integral(MillisecondsInSecond*frac)) * time.Millisecond)
		}
	}

	// Hand back the caller's location when it still has the same offset.
	if _, off := t.In(start.Location()).Zone(); off == offset {
		return t.In(start.Location())
	}
	return t
}

// Between returns the elapsed time between start and d applied to start.
func (d Duration) Between(start time.Time) time.Duration {
	return d.Apply(start).Sub(start)
}

// addMonths adds n months, clamping the day to the last day of the target month.
func addMonths(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	total := int(month) - 1 + n
	year += floorDiv(total, 12)
	month = time.Month(total-floorDiv(total, 12)*12) + 1

	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// addClock adds n units as whole days plus a remainder shorter than a day,
// keeping the time.Duration arithmetic within range.
func addClock(t time.Time, n int, unit time.Duration) time.Time {
	perDay := int(24 * time.Hour / unit)
	return t.AddDate(0, 0, n/perDay).Add(time.Duration(n%perDay) * unit)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func integral(x float64) int {
	return int(math.Floor(x))
}

// count floors x and saturates it to [-limit, limit] before converting to int.
func count(x float64, limit int) int {
	f := math.Floor(x)
	switch {
	case f > float64(limit):
		return limit
	case f < -float64(limit):
		return -limit
	}
	return int(f)
}

func fractional(x float64) float64 {
	return x - math.Floor(x)
}

func aboutNotEqual(x, y float64) bool {
	return x != y && math.Abs(x-y) >= epsilon
}
