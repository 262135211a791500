package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "850 m", FormatDistance(850))
	assert.Equal(t, "999 m", FormatDistance(999.4))
	assert.Equal(t, "1.0 km", FormatDistance(1000))
	assert.Equal(t, "1.5 km", FormatDistance(1500))
	assert.Equal(t, "12.3 km", FormatDistance(12345))
	assert.Equal(t, "0 m", FormatDistance(0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(30))
	assert.Equal(t, "5m", FormatDuration(300))
	assert.Equal(t, "59m", FormatDuration(3599))
	assert.Equal(t, "1h 0m", FormatDuration(3600))
	assert.Equal(t, "1h 30m", FormatDuration(5400))
	assert.Equal(t, "2h 5m", FormatDuration(7500))
}
