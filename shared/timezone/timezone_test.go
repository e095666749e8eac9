package timezone_test

import (
	"shareit/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
	assert.Equal(t, now, now.Truncate(time.Microsecond))
}

func TestSetLocation(t *testing.T) {
	original := timezone.GetLocation().String()
	defer timezone.SetLocation(original)

	timezone.SetLocation("Asia/Jakarta")
	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())

	timezone.SetLocation("Not/AZone")
	assert.Equal(t, time.UTC, timezone.GetLocation())

	timezone.SetLocation("")
	assert.Equal(t, "UTC", timezone.GetLocation().String())
}

func TestParseAndFormat(t *testing.T) {
	original := timezone.GetLocation().String()
	defer timezone.SetLocation(original)

	timezone.SetLocation("UTC")

	parsed, err := timezone.Parse("2006-01-02T15:04:05", "2024-01-01T12:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC), parsed)

	formatted := timezone.Format(time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC), "2006-01-02T15:04:05")
	assert.Equal(t, "2024-01-01T12:30:00", formatted)
}
