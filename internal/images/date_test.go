package images_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/servermanage/internal/images"
)

func TestValidDate_AllDaysOfEveryMonth(t *testing.T) {
	t.Parallel()

	monthLengths := []int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	for i, length := range monthLengths {
		month := i + 1
		for day := 1; day <= length; day++ {
			assert.Truef(t, images.ValidDate(month, day), "%02d-%02d should be valid", month, day)
		}
		assert.Falsef(t, images.ValidDate(month, length+1), "%02d-%02d should be invalid", month, length+1)
	}
}

func TestValidDate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		month, day int
	}{
		{"february 30", 2, 30},
		{"february 31", 2, 31},
		{"april 31", 4, 31},
		{"month 13", 13, 1},
		{"month 0", 0, 10},
		{"day 0", 5, 0},
		{"negative day", 5, -1},
		{"day 32", 1, 32},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, images.ValidDate(tt.month, tt.day))
		})
	}
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	key, err := images.DateKey(12, 25)
	require.NoError(t, err)
	assert.Equal(t, "12-25", key)

	key, err = images.DateKey(2, 29)
	require.NoError(t, err)
	assert.Equal(t, "02-29", key)

	_, err = images.DateKey(2, 30)
	require.ErrorIs(t, err, images.ErrInvalidCalendarDate)
}

func TestHumanDate(t *testing.T) {
	t.Parallel()

	human, err := images.HumanDate("12-25")
	require.NoError(t, err)
	assert.Equal(t, "December 25", human)

	human, err = images.HumanDate("03-05")
	require.NoError(t, err)
	assert.Equal(t, "March 05", human)

	_, err = images.HumanDate("13-01")
	require.ErrorIs(t, err, images.ErrInvalidCalendarDate)
}

func TestDateKeyFor(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on Dec 24 is already Dec 25 in UTC+10.
	ts := time.Date(2024, time.December, 24, 20, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "12-25", images.DateKeyFor(ts))
}

func TestAllDateKeys(t *testing.T) {
	t.Parallel()

	keys := images.AllDateKeys()
	require.Len(t, keys, 366)
	assert.Equal(t, "01-01", keys[0])
	assert.Equal(t, "02-29", keys[59])
	assert.Equal(t, "12-31", keys[365])
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]images.Category{
		"icon":    images.CategoryIcon,
		"icons":   images.CategoryIcon,
		"Banner":  images.CategoryBanner,
		"banners": images.CategoryBanner,
	} {
		got, err := images.ParseCategory(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := images.ParseCategory("splash")
	require.ErrorIs(t, err, images.ErrUnknownCategory)
	assert.Equal(t, "icons", images.CategoryIcon.Plural())
}
