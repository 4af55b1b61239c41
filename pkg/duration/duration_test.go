package duration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthpath/cadence/pkg/parsable"
)

func TestParse_Fields(t *testing.T) {
	t.Parallel()

	d, err := Parse("P1Y2M3DT4H5M6S")
	require.NoError(t, err)

	check := func(name string, get func() (float64, bool), want float64) {
		v, ok := get()
		assert.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}
	check("years", d.Years, 1)
	check("months", d.Months, 2)
	check("days", d.Days, 3)
	check("hours", d.Hours, 4)
	check("minutes", d.Minutes, 5)
	check("seconds", d.Seconds, 6)

	_, ok := d.Weeks()
	assert.False(t, ok, "weeks should be absent")
	assert.Equal(t, "P1Y2M3DT4H5M6S", d.String())
}

func TestParse_Presence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		get   func(Duration) (float64, bool)
		want  float64
	}{
		{"zero days present", "P0D", Duration.Days, 0},
		{"negative days present", "P-1D", Duration.Days, -1},
		{"negative zero present", "P-0D", Duration.Days, 0},
		{"fractional weeks", "P0.5W", Duration.Weeks, 0.5},
		{"minutes not months after T", "PT7M", Duration.Minutes, 7},
		{"months before T", "P7M", Duration.Months, 7},
		{"negative fractional seconds", "PT-2.25S", Duration.Seconds, -2.25},
		{"lower case", "p3dt4h", Duration.Hours, 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Parse(tt.input)
			require.NoError(t, err)
			v, ok := tt.get(d)
			assert.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("months absent after T", func(t *testing.T) {
		t.Parallel()
		d := MustParse("PT7M")
		_, ok := d.Months()
		assert.False(t, ok)
	})

	t.Run("empty time section", func(t *testing.T) {
		t.Parallel()
		d := MustParse("PT")
		assert.True(t, d.IsEmpty())
		assert.Equal(t, "P", d.String())
	})
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"   ",
		"P",
		"p",
		"garbage",
		"1D",
		"P1",
		"PD",
		"P1D2Y",
		"P1Y1Y",
		"PT1H1H",
		"P1DT1D",
		"PT1Y",
		"P1.D",
		"P.5D",
		"P+1D",
		"P--1D",
		"P1e3D",
		"P1,5D",
		" P1D",
		"P1D ",
		"P1D\n",
		"PTT",
		"-P1D",
	}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, parsable.ErrFormat)

			var fe *parsable.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, input, fe.Input)
			assert.Equal(t, "duration", fe.Type)

			_, ok := TryParse(input)
			assert.False(t, ok)
		})
	}
}

func TestParse_MagnitudeOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Parse("P1" + strings.Repeat("9", 400) + "D")
	assert.ErrorIs(t, err, parsable.ErrFormat)
}

func TestTryParse(t *testing.T) {
	t.Parallel()

	d, ok := TryParse("P1W")
	assert.True(t, ok)
	assert.Equal(t, "P1W", d.String())

	_, ok = TryParse("garbage")
	assert.False(t, ok)

	_, ok = TryParse("")
	assert.False(t, ok)
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParse("P") })
}

func TestString_Canonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"P1Y0M", "P1Y"},
		{"PT0S", "P"},
		{"PT", "P"},
		{"P1DT", "P1D"},
		{"P-1D", "P"},
		{"PT-1H30M", "PT30M"},
		{"p1y2m3dt4h5m6s", "P1Y2M3DT4H5M6S"},
		{"P1.50D", "P1.5D"},
		{"P0.5W", "P0.5W"},
		{"P007D", "P7D"},
		{"P0Y0M0W0DT0H0M0S", "P"},
		{"P1W2DT3S", "P1W2DT3S"},
		{"PT0.001S", "PT0.001S"},
		{"P10000000000000000000000Y", "P10000000000000000000000Y"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MustParse(tt.input).String())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("all fields", func(t *testing.T) {
		d := New(Fields{
			Years: Of(1), Months: Of(2), Weeks: Of(3), Days: Of(4),
			Hours: Of(5), Minutes: Of(6), Seconds: Of(7.5),
		})
		assert.Equal(t, "P1Y2M3W4DT5H6M7.5S", d.String())
	})

	t.Run("no fields", func(t *testing.T) {
		d := New(Fields{})
		assert.True(t, d.IsEmpty())
		assert.Equal(t, "P", d.String())
		assert.Equal(t, Duration{}.String(), d.String())
	})

	t.Run("inputs are copied", func(t *testing.T) {
		days := 2.0
		d := New(Fields{Days: &days})
		days = 9
		v, _ := d.Days()
		assert.Equal(t, 2.0, v)
		assert.Equal(t, "P2D", d.String())
	})

	t.Run("fields round trip", func(t *testing.T) {
		d := MustParse("P-1DT2H")
		f := d.Fields()
		require.NotNil(t, f.Days)
		require.NotNil(t, f.Hours)
		assert.Nil(t, f.Years)
		assert.Equal(t, -1.0, *f.Days)
		assert.Equal(t, d.String(), New(f).String())
	})
}

func TestEqualAndCompare(t *testing.T) {
	t.Parallel()

	t.Run("different fields same rendering", func(t *testing.T) {
		a := New(Fields{Days: Of(1), Hours: Of(0)})
		b := MustParse("P1D")
		c := New(Fields{Years: Of(-3), Days: Of(1)})

		assert.True(t, a.Equal(b))
		assert.True(t, b.Equal(c))
		assert.Equal(t, 0, a.Compare(b))
		assert.Equal(t, 0, c.Compare(a))
	})

	t.Run("ordering", func(t *testing.T) {
		assert.Equal(t, -1, MustParse("P1D").Compare(MustParse("P2D")))
		assert.Equal(t, 1, MustParse("PT1H").Compare(MustParse("P1D")))
		assert.False(t, MustParse("P1D").Equal(MustParse("P1W")))
	})

	t.Run("zero value", func(t *testing.T) {
		assert.True(t, Duration{}.Equal(MustParse("PT0S")))
	})
}

func TestRoundTripIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"P1Y2M3DT4H5M6S",
		"P1Y0M",
		"p-1dt2h",
		"P0.5W",
		"P1.25YT0.5S",
		"P-1.5DT3H",
		"P3W",
	}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			first := MustParse(input)
			again, err := Parse(first.String())
			require.NoError(t, err)
			assert.True(t, first.Equal(again))
			assert.Equal(t, first.String(), again.String())
		})
	}
}

func TestRoundTrip_EmptyCanonicalForm(t *testing.T) {
	t.Parallel()

	// Nothing is rendered when every component is absent or non-positive, and
	// the bare "P" that results is not itself a valid duration.
	for _, input := range []string{"PT", "P0D", "P-1D"} {
		d := MustParse(input)
		assert.Equal(t, "P", d.String())

		_, ok := TryParse(d.String())
		assert.False(t, ok)
	}
}
