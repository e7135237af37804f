package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookbackRange(t *testing.T) {
	to := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	from, end := LookbackRange(to, 30)
	assert.Equal(t, to, end)
	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), from)
}

func TestLookbackRangeMinimumOneDay(t *testing.T) {
	to := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	from, _ := LookbackRange(to, 0)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)

	from, _ = LookbackRange(to, -5)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)
}
