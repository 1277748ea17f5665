package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "2024-03-01"},
		{" 2024-03-01 ", "2024-03-01"},
		{"03/01/2024", "2024-03-01"},
		{"2024-03-01T23:30:00Z", "2024-03-01"},
		{"March 1, 2024", "2024-03-01"},
	}
	for _, tt := range tests {
		got, err := NormalizeDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "not a date"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOfAndFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC)
	d := DateOf(ts)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	assert.Equal(t, "2024-03-01", FormatDate(datatypes.Date(d)))
	assert.Equal(t, "", FormatDate(datatypes.Date{}))
	assert.Nil(t, FormatDatePtr(nil))

	dd, err := ToDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", *FormatDatePtr(&dd))
}
