package memodate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolveStatement(t *testing.T) {
	tests := []struct {
		name  string
		token string
		ref   time.Time
		want  time.Time
	}{
		{
			name:  "same year",
			token: "1105 1412",
			ref:   date(2009, time.November, 10, 0, 0),
			want:  date(2009, time.November, 5, 14, 12),
		},
		{
			name:  "swipe in december, posted in january",
			token: "1231 2359",
			ref:   date(2010, time.January, 2, 0, 0),
			want:  date(2009, time.December, 31, 23, 59),
		},
		{
			name:  "reference in november, swipe in march",
			token: "0302 0904",
			ref:   date(2009, time.November, 1, 0, 0),
			want:  date(2010, time.March, 2, 9, 4),
		},
		{
			name:  "just inside the window",
			token: "0601 0000",
			ref:   date(2009, time.November, 27, 0, 0),
			want:  date(2009, time.June, 1, 0, 0),
		},
		{
			name:  "leap day in a leap reference year",
			token: "0229 1200",
			ref:   date(2012, time.March, 1, 0, 0),
			want:  date(2012, time.February, 29, 12, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveStatement(tt.token, tt.ref)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolveStatement_Invalid(t *testing.T) {
	ref := date(2009, time.November, 10, 0, 0)
	for _, token := range []string{
		"1332 1200",
		"0230 1200",
		"0229 1200",
		"1105 2500",
		"1105 1260",
		"0000 0000",
		"11051412",
		"",
	} {
		_, ok := ResolveStatement(token, ref)
		assert.False(t, ok, token)
	}
}

func TestResolveStatement_LeapDayShiftedIntoCommonYear(t *testing.T) {
	// Feb 29 2012 is valid but more than 180 days before the reference, so
	// it would move to 2013 which has no Feb 29.
	_, ok := ResolveStatement("0229 1200", date(2012, time.December, 20, 0, 0))
	assert.False(t, ok)
}

func TestResolveStatement_Location(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	ref := time.Date(2009, time.November, 10, 0, 0, 0, 0, loc)
	got, ok := ResolveStatement("1105 1412", ref)
	require.True(t, ok)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 14, got.Hour())
}

func TestResolveStatement_YearShiftsTowardsReference(t *testing.T) {
	ref := date(2009, time.July, 1, 0, 0)
	for m := time.January; m <= time.December; m++ {
		token := time.Date(2000, m, 15, 12, 0, 0, 0, time.UTC).Format("0102 1504")
		got, ok := ResolveStatement(token, ref)
		require.True(t, ok, token)

		d := got.Sub(ref)
		if d < 0 {
			d = -d
		}
		assert.LessOrEqual(t, d, Window+24*time.Hour, token)
		assert.InDelta(t, 2009, got.Year(), 1, token)
	}
}

func TestResolveCard(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
		ok    bool
	}{
		{"11-03-09", date(2009, time.November, 3, 0, 0), true},
		{"01-31-10", date(2010, time.January, 31, 0, 0), true},
		{"12-31-99", date(1999, time.December, 31, 0, 0), true},
		{"02-30-09", time.Time{}, false},
		{"13-01-09", time.Time{}, false},
		{"11/03/09", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ResolveCard(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
