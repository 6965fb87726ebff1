package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15T10:20:30.123456Z", time.Date(2024, 3, 15, 10, 20, 30, 123456000, time.UTC)},
		{"2024-03-15T10:20:30Z", time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC)},
		{"2024-03-15 08:00:01", time.Date(2024, 3, 15, 8, 0, 1, 0, time.UTC)},
		{"  2024-03-15  ", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeDateFallback(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orig := nowUTC
	nowUTC = func() time.Time { return fixed }
	t.Cleanup(func() { nowUTC = orig })

	got, ok := NormalizeDate("garbage")
	assert.False(t, ok)
	assert.Equal(t, fixed, got)

	got, ok = NormalizeDate("")
	assert.True(t, ok)
	assert.Equal(t, fixed, got)

	_, ok = NormalizeDate("15/03/2024")
	assert.False(t, ok)
}

func TestNormalizeDateUsesCurrentTime(t *testing.T) {
	got, _ := NormalizeDate("not a date")
	assert.WithinDuration(t, time.Now().UTC(), got, 5*time.Second)
}
