package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:30")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 7, Minute: 30}, c)

	c, err = ParseClock(" 22:05:59 ")
	require.NoError(t, err)
	assert.Equal(t, "22:05", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestWeekdayStartsOnMonday(t *testing.T) {
	monday := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, Weekday(monday))
	assert.Equal(t, 6, Weekday(monday.AddDate(0, 0, 6)))
}

func TestParseDays(t *testing.T) {
	days, err := ParseDays("0, 2,4")
	require.NoError(t, err)
	assert.Equal(t, [7]bool{true, false, true, false, true, false, false}, days)

	for _, bad := range []string{"", "7", "mon", "1,-1"} {
		_, err := ParseDays(bad)
		assert.Error(t, err, bad)
	}
}

func TestWindowOnMidnightCrossing(t *testing.T) {
	zones := []*time.Location{time.UTC, time.FixedZone("WIB", 7*3600), time.FixedZone("BRT", -3*3600)}
	starts := []Clock{{22, 0}, {23, 59}, {18, 30}, {12, 1}, {0, 1}}
	ends := []Clock{{6, 0}, {0, 0}, {2, 15}, {12, 0}}

	for _, loc := range zones {
		day := time.Date(2023, 12, 25, 0, 0, 0, 0, loc)
		for i := 0; i < 400; i += 7 {
			anchor := day.AddDate(0, 0, i)
			for _, s := range starts {
				for _, e := range ends {
					if !e.Before(s) {
						continue
					}
					w := WindowOn(1, s, e, anchor)
					require.True(t, w.End.After(w.Start), "%s-%s on %s", s, e, anchor)
					wantEnd := w.Start.AddDate(0, 0, 1)
					assert.Equal(t, wantEnd.Format("2006-01-02"), w.End.Format("2006-01-02"))
					assert.Equal(t, anchor.Format("2006-01-02"), w.Start.Format("2006-01-02"))
				}
			}
		}
	}
}

func TestWindowOnDayShift(t *testing.T) {
	day := time.Date(2024, 1, 15, 10, 15, 0, 0, time.UTC)
	w := WindowOn(3, Clock{9, 0}, Clock{17, 0}, day)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, 8*time.Hour, w.Duration())
}
