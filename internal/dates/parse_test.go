package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AcceptedLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T09:30:00Z", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01T09:30:00.250Z", time.Date(2024, 3, 1, 9, 30, 0, 250_000_000, time.UTC)},
		{"2024-03-01T09:30:00", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01T09:30", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01 09:30:00", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestParse_KeepsOffset(t *testing.T) {
	got, err := Parse("2024-03-01T23:30:00+08:00")
	require.NoError(t, err)

	_, offset := got.Zone()
	assert.Equal(t, 8*3600, offset)
	assert.Equal(t, "2024-03-01", Day(got))
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"not-a-date", "", "2024/03/01", "01-03-2024", "2024-13-01"} {
		_, err := Parse(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedTimestamp), in)
		assert.False(t, Valid(in), in)
	}
}
