package check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_CountWorkdays(t *testing.T) {
	cal := weekdays()

	// 2026-01-05 为周一
	assert.Equal(t, 5, cal.CountWorkdays(day("2026-01-05"), day("2026-01-11")))
	assert.Equal(t, 2, cal.CountWorkdays(day("2026-01-08"), day("2026-01-09")))
	assert.Equal(t, 0, cal.CountWorkdays(day("2026-01-10"), day("2026-01-11")))
	assert.Equal(t, 0, cal.CountWorkdays(day("2026-01-09"), day("2026-01-08")))
}

func TestCalendar_Holidays(t *testing.T) {
	cal := NewCalendar(DefaultWorkdays, []time.Time{day("2026-01-06")})

	assert.False(t, cal.IsWorkday(day("2026-01-06")))
	assert.Equal(t, 4, cal.CountWorkdays(day("2026-01-05"), day("2026-01-09")))
}

func TestCalendar_SundayMask(t *testing.T) {
	cal := NewCalendar([]int{7, 9, 0}, nil)

	assert.True(t, cal.IsWorkday(day("2026-01-11")))
	assert.False(t, cal.IsWorkday(day("2026-01-12")))
}

func TestRate(t *testing.T) {
	assert.Equal(t, 100.0, rate(0, 0))
	assert.Equal(t, 66.67, rate(2, 3))
	assert.Equal(t, 50.0, rate(1, 2))
}

func TestMaxMinTime_DateOnly(t *testing.T) {
	a := time.Date(2026, 1, 8, 23, 30, 0, 0, time.UTC)
	b := time.Date(2026, 1, 8, 1, 0, 0, 0, time.UTC)
	c := day("2026-01-09")

	assert.Equal(t, day("2026-01-09"), maxTime(a, c))
	assert.Equal(t, day("2026-01-08"), minTime(a, c))
	assert.Equal(t, day("2026-01-08"), maxTime(a, b))
	assert.Equal(t, day("2026-01-08"), minTime(b, a))
}
