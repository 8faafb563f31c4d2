package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtMinute_UsesBusinessTimezone(t *testing.T) {
	require.NoError(t, Init("Asia/Tashkent"))

	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// 09:00 in Tashkent (UTC+5) is 04:00 UTC
	assert.Equal(t, time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC), AtMinute(d, 9*60))
	assert.Equal(t, time.Date(2025, 3, 9, 19, 0, 0, 0, time.UTC), AtMinute(d, 0))
	assert.Equal(t, time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC), AtMinute(d, MinutesPerDay))
}

func TestDateOf_CrossesMidnight(t *testing.T) {
	require.NoError(t, Init("Asia/Tashkent"))

	// 20:30 UTC is already the next day in Tashkent
	got := DateOf(time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2025-03-11", FormatDate(got))
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange("2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	for _, bad := range []string{"2024-13", "2024-00", "2024-1", "24-01", "2024/01", "", "0999-05"} {
		_, _, err := MonthRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	assert.Equal(t, at.UTC(), FixedClock(at).Now())
}
