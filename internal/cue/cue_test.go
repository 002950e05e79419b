package cue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cuesheet/internal/timecode"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Cue{Start: 0, End: 0}.Validate())
	require.NoError(t, Cue{Start: 10, End: 20}.Validate())

	err := Cue{Start: 30, End: 20}.Validate()
	var inv *InvertedRangeError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, timecode.Millis(30), inv.Start)
	assert.Equal(t, timecode.Millis(20), inv.End)
}

func TestClampEndBefore(t *testing.T) {
	tests := []struct {
		name       string
		c          Cue
		otherStart timecode.Millis
		wantEnd    timecode.Millis
	}{
		{"overlap truncated", Cue{Start: 0, End: 2000}, 1000, 999},
		{"touching truncated", Cue{Start: 0, End: 1000}, 1000, 999},
		{"no overlap unchanged", Cue{Start: 0, End: 500}, 1000, 500},
		{"floored at start", Cue{Start: 1000, End: 3000}, 1000, 1000},
		{"floored at start when other is earlier", Cue{Start: 1000, End: 3000}, 200, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.ClampEndBefore(tt.otherStart)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.Equal(t, tt.c.Start, got.Start)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestValidateSequence(t *testing.T) {
	ok := []Cue{{0, 999, "a"}, {1000, 3000, "b"}, {3000, 3000, "c"}}
	require.NoError(t, ValidateSequence(ok))
	require.NoError(t, ValidateSequence(nil))

	var ov *OverlapError
	err := ValidateSequence([]Cue{{0, 2000, "a"}, {1000, 3000, "b"}})
	require.True(t, errors.As(err, &ov))
	assert.Equal(t, 1, ov.Index)

	err = ValidateSequence([]Cue{{5000, 6000, "a"}, {1000, 3000, "b"}})
	require.True(t, errors.As(err, &ov))

	var inv *InvertedRangeError
	err = ValidateSequence([]Cue{{0, 10, "a"}, {50, 20, "b"}})
	require.True(t, errors.As(err, &inv))
}

func TestAutoEnd(t *testing.T) {
	assert.Equal(t, 3, WordCount("  three  short\twords "))
	assert.Equal(t, timecode.Millis(4000), AutoEnd(1000, "three short words", 1000))
	assert.Equal(t, timecode.Millis(1000), AutoEnd(1000, "", 1000))
	assert.Equal(t, timecode.Millis(1500), AutoEnd(500, "two words", 500))
}

func TestContains(t *testing.T) {
	c := Cue{Start: 100, End: 200}
	assert.True(t, c.Contains(100))
	assert.True(t, c.Contains(200))
	assert.False(t, c.Contains(99))
	assert.False(t, c.Contains(201))
	assert.Equal(t, timecode.Millis(100), c.Length())
}
