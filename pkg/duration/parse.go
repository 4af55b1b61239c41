package duration

import (
	"errors"
	"strconv"

	"github.com/wealthpath/cadence/pkg/parsable"
)

// typeName is reported in format errors.
const typeName = "duration"

var (
	errMissingPeriod  = errors.New("must start with P")
	errEmptyPeriod    = errors.New("must have at least one component or a T section")
	errTrailing       = errors.New("unexpected characters after last component")
	errMagnitudeRange = errors.New("magnitude out of range")
)

// Parse parses an ISO 8601 duration, case-insensitively. Components must
// appear in the order Y, M, W, D, then optionally T followed by H, M, S.
// Each magnitude may be negative and fractional ("P-1.5D").
//
// Blank input and text that does not match the grammar return a
// *parsable.FormatError.
func Parse(s string) (Duration, error) {
	if parsable.IsBlank(s) {
		return Duration{}, parsable.NewFormatError(typeName, s, nil)
	}

	parts, err := scan(s)
	if err != nil {
		return Duration{}, parsable.NewFormatError(typeName, s, err)
	}
	return Duration{parts: parts, text: render(parts)}, nil
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (Duration, bool) {
	return parsable.Try(Parse, s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Duration {
	return parsable.Must(Parse(s))
}

// scanner walks the input once; every component group is optional and is
// either consumed whole or not at all.
type scanner struct {
	s   string
	pos int
}

func scan(s string) ([numUnits]component, error) {
	var parts [numUnits]component
	sc := &scanner{s: s}

	if !sc.accept(PeriodTag) {
		return parts, errMissingPeriod
	}
	if sc.done() {
		return parts, errEmptyPeriod
	}

	for u := unitYears; u <= unitDays; u++ {
		c, err := sc.component(designators[u])
		if err != nil {
			return parts, err
		}
		parts[u] = c
	}

	if sc.accept(TimeTag) {
		for u := unitHours; u <= unitSeconds; u++ {
			c, err := sc.component(designators[u])
			if err != nil {
				return parts, err
			}
			parts[u] = c
		}
	}

	if !sc.done() {
		return parts, errTrailing
	}
	return parts, nil
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.s)
}

// accept consumes tag (case-insensitively) if it is next.
func (sc *scanner) accept(tag byte) bool {
	if sc.done() || upper(sc.s[sc.pos]) != tag {
		return false
	}
	sc.pos++
	return true
}

// component reads "<number><tag>". If the number is not followed by tag the
// scanner rewinds and reports an absent component.
func (sc *scanner) component(tag byte) (component, error) {
	start := sc.pos
	end, ok := sc.number()
	if !ok {
		return component{}, nil
	}
	sc.pos = end
	if !sc.accept(tag) {
		sc.pos = start
		return component{}, nil
	}

	v, err := strconv.ParseFloat(sc.s[start:end], 64)
	if err != nil {
		return component{}, errMagnitudeRange
	}
	return component{value: v, present: true}, nil
}

// number matches -?digits(.digits)? at the current position and returns the
// end offset. It does not move the scanner.
func (sc *scanner) number() (int, bool) {
	i := sc.pos
	if i < len(sc.s) && sc.s[i] == '-' {
		i++
	}
	j := digits(sc.s, i)
	if j == i {
		return 0, false
	}
	if j < len(sc.s) && sc.s[j] == '.' {
		if k := digits(sc.s, j+1); k > j+1 {
			j = k
		}
	}
	return j, true
}

func digits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
