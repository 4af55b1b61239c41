// Package duration implements ISO 8601 durations such as "P1Y2M3DT4H5M6S".
//
// A Duration keeps each of its seven components (years, months, weeks, days,
// hours, minutes, seconds) as an optional float64: a component is present when
// its designator appeared in the source text, regardless of its sign or value.
// Components may be fractional or negative.
//
// The canonical string is built once at construction. Only components that are
// present and strictly positive are rendered, so "P1Y0M" renders as "P1Y".
// Equality and ordering are defined over the canonical string.
package duration

import (
	"strconv"
	"strings"
)

// Designators used in the canonical form.
const (
	PeriodTag  = 'P'
	TimeTag    = 'T'
	YearsTag   = 'Y'
	MonthsTag  = 'M'
	WeeksTag   = 'W'
	DaysTag    = 'D'
	HoursTag   = 'H'
	MinutesTag = 'M'
	SecondsTag = 'S'
)

type unit int

const (
	unitYears unit = iota
	unitMonths
	unitWeeks
	unitDays
	unitHours
	unitMinutes
	unitSeconds
	numUnits
)

// designators is indexed by unit.
var designators = [numUnits]byte{YearsTag, MonthsTag, WeeksTag, DaysTag, HoursTag, MinutesTag, SecondsTag}

type component struct {
	value   float64
	present bool
}

// Duration is an immutable ISO 8601 duration.
// The zero value has no components and renders as "P".
type Duration struct {
	parts [numUnits]component
	text  string
}

// Fields lists the components of a Duration. A nil field is absent.
type Fields struct {
	Years   *float64
	Months  *float64
	Weeks   *float64
	Days    *float64
	Hours   *float64
	Minutes *float64
	Seconds *float64
}

// Of returns a pointer to v, for use in Fields.
func Of(v float64) *float64 {
	return &v
}

// New creates a Duration from the given fields.
func New(f Fields) Duration {
	var d Duration
	for u, p := range [numUnits]*float64{f.Years, f.Months, f.Weeks, f.Days, f.Hours, f.Minutes, f.Seconds} {
		if p != nil {
			d.parts[u] = component{value: *p, present: true}
		}
	}
	d.text = render(d.parts)
	return d
}

// render builds the canonical string. Non-positive components are skipped.
func render(parts [numUnits]component) string {
	var buf strings.Builder
	buf.Grow(24)
	buf.WriteByte(PeriodTag)
	for u := unitYears; u <= unitDays; u++ {
		writeComponent(&buf, parts[u], designators[u])
	}

	var timeBuf strings.Builder
	for u := unitHours; u <= unitSeconds; u++ {
		writeComponent(&timeBuf, parts[u], designators[u])
	}
	if timeBuf.Len() > 0 {
		buf.WriteByte(TimeTag)
		buf.WriteString(timeBuf.String())
	}
	return buf.String()
}

func writeComponent(buf *strings.Builder, c component, tag byte) {
	if !c.present || !(c.value > 0) {
		return
	}
	buf.WriteString(strconv.FormatFloat(c.value, 'f', -1, 64))
	buf.WriteByte(tag)
}

func (d Duration) get(u unit) (float64, bool) {
	c := d.parts[u]
	return c.value, c.present
}

// Years returns the years component and whether it is present.
func (d Duration) Years() (float64, bool) { return d.get(unitYears) }

// Months returns the months component and whether it is present.
func (d Duration) Months() (float64, bool) { return d.get(unitMonths) }

// Weeks returns the weeks component and whether it is present.
func (d Duration) Weeks() (float64, bool) { return d.get(unitWeeks) }

// Days returns the days component and whether it is present.
func (d Duration) Days() (float64, bool) { return d.get(unitDays) }

// Hours returns the hours component and whether it is present.
func (d Duration) Hours() (float64, bool) { return d.get(unitHours) }

// Minutes returns the minutes component and whether it is present.
func (d Duration) Minutes() (float64, bool) { return d.get(unitMinutes) }

// Seconds returns the seconds component and whether it is present.
func (d Duration) Seconds() (float64, bool) { return d.get(unitSeconds) }

// Fields returns the components as a Fields value. The pointers are fresh copies.
func (d Duration) Fields() Fields {
	ptr := func(u unit) *float64 {
		if v, ok := d.get(u); ok {
			return Of(v)
		}
		return nil
	}
	return Fields{
		Years:   ptr(unitYears),
		Months:  ptr(unitMonths),
		Weeks:   ptr(unitWeeks),
		Days:    ptr(unitDays),
		Hours:   ptr(unitHours),
		Minutes: ptr(unitMinutes),
		Seconds: ptr(unitSeconds),
	}
}

// IsEmpty reports whether no component is present.
func (d Duration) IsEmpty() bool {
	for _, c := range d.parts {
		if c.present {
			return false
		}
	}
	return true
}

// String returns the canonical ISO 8601 form.
func (d Duration) String() string {
	if d.text == "" {
		return string(PeriodTag)
	}
	return d.text
}

// Compare orders two durations by their canonical strings, ignoring case.
// It returns -1, 0 or +1.
func (d Duration) Compare(other Duration) int {
	return strings.Compare(strings.ToUpper(d.String()), strings.ToUpper(other.String()))
}

// Equal reports whether both durations render the same canonical string, ignoring case.
func (d Duration) Equal(other Duration) bool {
	return strings.EqualFold(d.String(), other.String())
}
