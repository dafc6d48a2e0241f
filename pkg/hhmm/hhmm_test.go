package hhmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("parses well-formed times", func(t *testing.T) {
		tm, err := Parse("09:30")
		require.NoError(t, err)
		assert.Equal(t, 9, tm.Hours)
		assert.Equal(t, 30, tm.Minutes)
		assert.Equal(t, "09:30", tm.String())
	})

	t.Run("accepts boundaries", func(t *testing.T) {
		_, err := Parse("00:00")
		assert.NoError(t, err)
		_, err = Parse("23:59")
		assert.NoError(t, err)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "9:30", "24:00", "12:60", "ab:cd", "12-30", "123:0", "12:3"} {
			_, err := Parse(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestFinalize(t *testing.T) {
	t.Run("well-formed passes through", func(t *testing.T) {
		assert.Equal(t, "09:30", Finalize("09:30", "00:00"))
	})

	t.Run("four digits read as HHMM", func(t *testing.T) {
		assert.Equal(t, "09:30", Finalize("0930", "00:00"))
		assert.Equal(t, "23:59", Finalize("2359", "00:00"))
	})

	t.Run("three digits pad a trailing zero", func(t *testing.T) {
		assert.Equal(t, "09:30", Finalize("093", "00:00"))
		assert.Equal(t, "09:30", Finalize("09:3", "00:00"))
	})

	t.Run("three digits pad a leading zero when trailing is out of range", func(t *testing.T) {
		assert.Equal(t, "09:30", Finalize("930", "00:00"))
		assert.Equal(t, "08:15", Finalize("815", "00:00"))
		// "123" reads as 12:30 via the trailing pad, never as 01:23.
		assert.Equal(t, "12:30", Finalize("123", "00:00"))
	})

	t.Run("one or two digits reset to fallback", func(t *testing.T) {
		assert.Equal(t, "08:00", Finalize("9", "08:00"))
		assert.Equal(t, "08:00", Finalize("93", "08:00"))
	})

	t.Run("out of range falls back", func(t *testing.T) {
		assert.Equal(t, "08:00", Finalize("2960", "08:00"))
		assert.Equal(t, "08:00", Finalize("999", "08:00")) // neither 99:90 nor 09:99
	})

	t.Run("garbage falls back", func(t *testing.T) {
		assert.Equal(t, "08:00", Finalize("abc", "08:00"))
		assert.Equal(t, "08:00", Finalize("", "08:00"))
	})
}

func TestDiff(t *testing.T) {
	t.Run("same-day difference", func(t *testing.T) {
		assert.InDelta(t, 8.5, DiffStrings("08:00", "16:30"), 1e-9)
	})

	t.Run("wraps past midnight", func(t *testing.T) {
		assert.InDelta(t, 4.0, DiffStrings("22:00", "02:00"), 1e-9)
	})

	t.Run("zero-length shift", func(t *testing.T) {
		assert.InDelta(t, 0.0, DiffStrings("09:00", "09:00"), 1e-9)
	})

	t.Run("never negative", func(t *testing.T) {
		for _, pair := range [][2]string{{"23:59", "00:00"}, {"12:00", "11:59"}, {"00:00", "23:59"}} {
			assert.GreaterOrEqual(t, DiffStrings(pair[0], pair[1]), 0.0)
		}
	})

	t.Run("unparseable input yields NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(DiffStrings("late", "02:00")))
		assert.True(t, math.IsNaN(DiffStrings("09:00", "")))
	})
}
