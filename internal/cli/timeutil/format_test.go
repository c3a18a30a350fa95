package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptimeDays(t *testing.T) {
	assert.Equal(t, "3d 0h 30m 15s", FormatUptime("72h30m15s"))
}

func TestFormatUptimeHours(t *testing.T) {
	assert.Equal(t, "2h 5m 1s", FormatUptime("2h5m1s"))
}

func TestFormatUptimeMinutes(t *testing.T) {
	assert.Equal(t, "5m 1s", FormatUptime("5m1s"))
}

func TestFormatUptimeSecondsOnly(t *testing.T) {
	assert.Equal(t, "9s", FormatUptime("9s"))
}

func TestFormatUptimeInvalidPassesThrough(t *testing.T) {
	assert.Equal(t, "not-a-duration", FormatUptime("not-a-duration"))
}

func TestFormatTimeValid(t *testing.T) {
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
	got := FormatTime(ts)
	assert.NotEqual(t, ts, got)
}

func TestFormatTimeInvalidPassesThrough(t *testing.T) {
	assert.Equal(t, "garbage", FormatTime("garbage"))
}
