package quarters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentQuarter(t *testing.T) {
	tests := []struct {
		month   time.Month
		quarter int
	}{
		{time.January, 1},
		{time.March, 1},
		{time.April, 2},
		{time.June, 2},
		{time.July, 3},
		{time.September, 3},
		{time.October, 4},
		{time.December, 4},
	}

	for _, tt := range tests {
		date := time.Date(2025, tt.month, 15, 0, 0, 0, 0, time.Local)
		assert.Equal(t, tt.quarter, CurrentQuarter(date), "month %s", tt.month)
	}
}

func TestQuarterEnd(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.Local), QuarterEnd(2025, 1))
	assert.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.Local), QuarterEnd(2025, 2))
	assert.Equal(t, time.Date(2025, time.September, 30, 0, 0, 0, 0, time.Local), QuarterEnd(2025, 3))
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local), QuarterEnd(2025, 4))
}

func TestDaysUntilQuarterEnd(t *testing.T) {
	now := time.Date(2025, time.March, 24, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 7, DaysUntilQuarterEnd(now))
}

func TestDaysUntilQuarterEndOverdue(t *testing.T) {
	// 31 декабря 23:00 - конец квартала уже в прошлом по времени суток
	now := time.Date(2025, time.December, 31, 23, 0, 0, 0, time.Local)
	assert.LessOrEqual(t, DaysUntilQuarterEnd(now), 0)
}

func TestWalkSameYear(t *testing.T) {
	periods := Walk(2025, 4, 3)
	assert.Equal(t, []Period{{2025, 2}, {2025, 3}, {2025, 4}}, periods)
}

func TestWalkBorrowsYear(t *testing.T) {
	periods := Walk(2025, 1, 5)
	assert.Equal(t, []Period{
		{2024, 1}, {2024, 2}, {2024, 3}, {2024, 4}, {2025, 1},
	}, periods)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Q3 2025", Label(2025, 3))
}
