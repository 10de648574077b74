package age

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func unix(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestYears(t *testing.T) {
	tests := []struct {
		name  string
		birth int64
		ref   int64
		want  int
	}{
		{
			name:  "birthday already passed this year",
			birth: -712108800, // 1947-06-09
			ref:   unix(2017, time.August, 1, 0),
			want:  70,
		},
		{
			name:  "birthday not yet reached this year",
			birth: -712108800,
			ref:   unix(2017, time.May, 1, 0),
			want:  69,
		},
		{
			name:  "same month, day before birthday",
			birth: unix(1990, time.March, 15, 0),
			ref:   unix(2020, time.March, 14, 23),
			want:  29,
		},
		{
			name:  "exactly on birthday",
			birth: unix(1990, time.March, 15, 12),
			ref:   unix(2020, time.March, 15, 0),
			want:  30,
		},
		{
			name:  "reference before birth",
			birth: unix(2000, time.January, 2, 0),
			ref:   unix(1999, time.January, 1, 0),
			want:  -2,
		},
		{
			name:  "born on leap day, non leap reference year",
			birth: unix(1996, time.February, 29, 0),
			ref:   unix(2001, time.February, 28, 0),
			want:  4,
		},
		{
			name:  "born on leap day, first of march",
			birth: unix(1996, time.February, 29, 0),
			ref:   unix(2001, time.March, 1, 0),
			want:  5,
		},
		{
			name:  "same instant",
			birth: 0,
			ref:   0,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Years(tt.birth, tt.ref))
		})
	}
}

// TestYearsDiffersFromDayCount guards against a 365 day approximation, which
// reports the new age one day early here.
func TestYearsDiffersFromDayCount(t *testing.T) {
	birth := unix(2000, time.March, 1, 0)
	ref := unix(2004, time.February, 29, 12)

	approx := int(float64(ref-birth) / (365 * 24 * 3600))
	assert.Equal(t, 3, Years(birth, ref))
	assert.NotEqual(t, approx, Years(birth, ref))
}

func TestYearsMonotonic(t *testing.T) {
	birth := unix(1985, time.July, 20, 6)
	ref := unix(2010, time.January, 1, 0)
	end := unix(2013, time.January, 1, 0)

	prev := Years(birth, ref)
	for ; ref < end; ref += 6 * 3600 {
		cur := Years(birth, ref)
		assert.GreaterOrEqual(t, cur, prev, "age decreased at %d", ref)
		assert.LessOrEqual(t, cur-prev, 1, "age jumped at %d", ref)

		if cur != prev {
			r := time.Unix(ref, 0).UTC()
			assert.Equal(t, time.July, r.Month(), "age changed outside the birthday month")
			assert.Equal(t, 20, r.Day(), "age changed before/after the birthday")
		}
		prev = cur
	}
}
