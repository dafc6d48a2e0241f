package timesheet

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func entry(start, end string, hours float64, approved bool, salary string) model.TimeEntry {
	e := model.TimeEntry{Approved: approved}
	if start != "" {
		e.StartTime = &start
	}
	if end != "" {
		e.EndTime = &end
		e.TotalHours = &hours
	}
	if salary != "" {
		s, err := decimal.NewFromString(salary)
		if err != nil {
			panic(err)
		}
		e.Salary = &s
	}
	return e
}

func TestAggregate(t *testing.T) {
	entries := []model.TimeEntry{
		entry("08:00", "16:00", 8, true, "120.00"),
		entry("09:00", "17:30", 8.5, false, "127.50"),
		entry("22:00", "02:00", 4, true, "60.00"),
		entry("08:00", "", 0, false, ""), // open shift, clocked in only
	}

	s := Aggregate(entries)

	assert.Equal(t, 3, s.DaysWorked)
	assert.InDelta(t, 20.5, s.TotalHours, 1e-9)
	assert.InDelta(t, 12, s.ApprovedHours, 1e-9)
	assert.InDelta(t, 8.5, s.PendingHours, 1e-9)
	assert.True(t, s.TotalEarnings.Equal(decimal.RequireFromString("307.50")))
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	assert.Equal(t, 0, s.DaysWorked)
	assert.Zero(t, s.TotalHours)
	assert.True(t, s.TotalEarnings.IsZero())
}

func TestAggregateHoursIdentity(t *testing.T) {
	// totalHours == approvedHours + pendingHours, exactly.
	rng := rand.New(rand.NewSource(42))
	entries := make([]model.TimeEntry, 0, 50)
	for i := 0; i < 50; i++ {
		h := float64(rng.Intn(600)) / 60.0
		entries = append(entries, entry("08:00", "16:00", h, rng.Intn(2) == 0, ""))
	}

	s := Aggregate(entries)
	assert.InDelta(t, s.TotalHours, s.ApprovedHours+s.PendingHours, 1e-9)
}

func TestAggregateOrderIndependent(t *testing.T) {
	entries := []model.TimeEntry{
		entry("08:00", "16:00", 8, true, "120.00"),
		entry("09:00", "17:00", 8, false, "120.00"),
		entry("10:00", "14:15", 4.25, true, "63.75"),
	}

	want := Aggregate(entries)
	for i := 0; i < 10; i++ {
		shuffled := append([]model.TimeEntry(nil), entries...)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(shuffled)
		assert.Equal(t, want.DaysWorked, got.DaysWorked)
		assert.InDelta(t, want.TotalHours, got.TotalHours, 1e-9)
		assert.True(t, want.TotalEarnings.Equal(got.TotalEarnings))
	}
}

func TestAggregateIdempotent(t *testing.T) {
	entries := []model.TimeEntry{entry("08:00", "16:00", 8, true, "120.00")}
	first := Aggregate(entries)
	second := Aggregate(entries)
	assert.Equal(t, first, second)
}

func TestWeekRange(t *testing.T) {
	t.Run("midweek", func(t *testing.T) {
		// Wednesday 2026-08-26
		start, end := WeekRange(time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC))
		require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
		require.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("sunday belongs to the preceding monday", func(t *testing.T) {
		start, _ := WeekRange(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
		require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("monday starts its own week", func(t *testing.T) {
		start, _ := WeekRange(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
		require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
	})
}
