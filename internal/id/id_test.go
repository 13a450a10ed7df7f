package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRow(t *testing.T) {
	a := ForRow([]string{"2009-11-25", "-20.00", "SH DRAFT# 1121"})
	b := ForRow([]string{"2009-11-25", "-20.00", "SH DRAFT# 1121"})
	c := ForRow([]string{"2009-11-25", "-20.01", "SH DRAFT# 1121"})

	assert.Len(t, a, 40)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestForRow_KnownValue(t *testing.T) {
	assert.Equal(t, "5d8b1241b0484dd20c2cfeca6f692becfbab5d18", ForRow([]string{"a", "b"}))
}

func TestNewRun(t *testing.T) {
	a := NewRun()
	b := NewRun()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestShort(t *testing.T) {
	tests := []struct {
		id   string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 3, "abc"},
		{"ab", 8, "ab"},
		{"", 4, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Short(tt.id, tt.n))
	}
}
