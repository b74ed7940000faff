package vfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"r", ModeRead},
		{"rb", ModeRead},
		{"r+", ModeReadUpdate},
		{"rb+", ModeReadUpdate},
		{"r+b", ModeReadUpdate},
		{"w", ModeWrite},
		{"wb", ModeWrite},
		{"w+", ModeWriteUpdate},
		{"a", ModeAppend},
		{"a+", ModeAppendUpdate},
		{"ab+", ModeAppendUpdate},
		{"wx", ModeWriteExclusive},
		{"wbx", ModeWriteExclusive},
		{"w+x", ModeWriteExclusiveUpdate},
		{"wx+", ModeWriteExclusiveUpdate},
		{" w + ", ModeWriteUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModeInvalid(t *testing.T) {
	for _, in := range []string{"", "b", "+", "+r", "x", "rx", "ax", "r++", "wxx", "rw", "ra", "q", "r t", "W"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMode(in)
			assert.ErrorIs(t, err, ErrInvalidMode)
		})
	}
}

func TestModeCapabilities(t *testing.T) {
	tests := []struct {
		m                       Mode
		read, write, appendMode bool
	}{
		{ModeRead, true, false, false},
		{ModeWrite, false, true, false},
		{ModeAppend, false, true, true},
		{ModeReadUpdate, true, true, false},
		{ModeWriteUpdate, true, true, false},
		{ModeAppendUpdate, true, true, true},
		{ModeClosed, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			assert.Equal(t, tt.read, tt.m.CanRead())
			assert.Equal(t, tt.write, tt.m.CanWrite())
			assert.Equal(t, tt.appendMode, tt.m.Appends())
		})
	}
}

func TestModeCodes(t *testing.T) {
	assert.Equal(t, 0, ModeClosed.Code())
	assert.Equal(t, 1, ModeRead.Code())
	assert.Equal(t, 6, ModeAppendUpdate.Code())
	assert.Equal(t, ModeWrite, ModeWriteExclusive.collapse())
	assert.Equal(t, ModeWriteUpdate, ModeWriteExclusiveUpdate.collapse())
	assert.Equal(t, "Mode(42)", Mode(42).String())
	assert.False(t, Mode(42).Valid())
}
