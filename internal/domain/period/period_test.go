package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonths_SingleMonth(t *testing.T) {
	months := Months(day(2024, time.March, 10), day(2024, time.March, 12))

	require.Len(t, months, 1)
	assert.Equal(t, 2024, months[0].Year)
	assert.Equal(t, time.March, months[0].Month)
	assert.Equal(t, day(2024, time.March, 1), months[0].Start)
	assert.Equal(t, day(2024, time.March, 31), months[0].End)
	assert.Equal(t, "March 2024", months[0].Label)
}

func TestMonths_LeapFebruaryAndYearBoundary(t *testing.T) {
	months := Months(day(2023, time.November, 30), day(2024, time.February, 1))

	require.Len(t, months, 4)
	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"November 2023", "December 2023", "January 2024", "February 2024"}, labels)
	assert.Equal(t, day(2024, time.February, 29), months[3].End)
	assert.Equal(t, []int{2023, 2024}, Years(months))
}

func TestMonths_ContiguousAndCovering(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
	}{
		{"same day", day(2024, time.January, 1), day(2024, time.January, 1)},
		{"month end to month start", day(2024, time.January, 31), day(2024, time.February, 1)},
		{"multi year", day(2021, time.June, 15), day(2024, time.August, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := Months(tt.from, tt.to)
			require.NotEmpty(t, months)

			assert.True(t, months[0].Window().Contains(tt.from))
			assert.True(t, months[len(months)-1].Window().Contains(tt.to))

			for i := 1; i < len(months); i++ {
				assert.Equal(t, months[i-1].End.AddDate(0, 0, 1), months[i].Start, "gap before %s", months[i].Label)
				assert.Equal(t, months[i-1].End, months[i].OpeningDate())
			}
		})
	}
}

func TestMonths_InvertedRangeIsEmpty(t *testing.T) {
	assert.Empty(t, Months(day(2024, time.May, 1), day(2024, time.April, 30)))
}

func TestMonths_Idempotent(t *testing.T) {
	from, to := day(2024, time.January, 5), day(2024, time.June, 20)
	assert.Equal(t, Months(from, to), Months(from, to))
}

func TestDate_KeepsWallClockDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2024, time.January, 31, 23, 30, 0, 0, loc)

	assert.Equal(t, day(2024, time.January, 31), Date(ts))
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: day(2024, time.January, 1), End: day(2024, time.January, 31)}

	assert.True(t, w.Contains(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(day(2024, time.February, 1)))
	assert.False(t, w.Contains(day(2023, time.December, 31)))
}
