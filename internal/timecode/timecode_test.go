package timecode

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		grammar Grammar
		want    Millis
	}{
		{"srt", "00:00:01,500", SRT, 1500},
		{"srt dot tolerated", "00:00:01.500", SRT, 1500},
		{"srt hours", "01:02:03,004", SRT, 3723004},
		{"vtt full", "00:01:02.345", VTT, 62345},
		{"vtt short", "01:02.345", VTT, 62345},
		{"vtt comma tolerated", "00:00:02,000", VTT, 2000},
		{"ass centiseconds", "0:00:01.50", ASS, 1500},
		{"ass single digit fraction", "0:00:01.5", ASS, 1500},
		{"sbv", "0:00:03.250", SBV, 3250},
		{"lrc", "01:02.50", LRC, 62500},
		{"lrc minutes unbounded", "75:00.00", LRC, 75 * 60000},
		{"lrc without fraction", "00:07", LRC, 7000},
		{"sidecar", "00:00:04.100", Sidecar, 4100},
		{"sidecar python timedelta", "0:01:02.500000", Sidecar, 62500},
		{"sidecar whole seconds", "0:00:05", Sidecar, 5000},
		{"fraction truncated not rounded", "00:00:01,9999", SRT, 1999},
		{"surrounding whitespace", "  00:00:01,000 ", SRT, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, tt.grammar)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		grammar Grammar
	}{
		{"empty", "", SRT},
		{"missing fraction", "00:00:01", SRT},
		{"non numeric", "00:aa:01,000", SRT},
		{"minutes out of range", "00:60:00,000", SRT},
		{"seconds out of range", "00:00:60,000", VTT},
		{"too few fields", "00:01,000", SRT},
		{"too many fields", "00:00:00:01,000", SRT},
		{"lrc with hours", "00:01:02.50", LRC},
		{"lrc seconds out of range", "01:75.00", LRC},
		{"negative", "-00:00:01,000", SRT},
		{"empty fraction", "00:00:01,", SRT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, tt.grammar)
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "expected *FormatError, got %T", err)
			assert.Equal(t, tt.grammar, fe.Grammar)
			assert.Equal(t, tt.text, fe.Text)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		ms      Millis
		grammar Grammar
		want    string
	}{
		{1500, SRT, "00:00:01,500"},
		{3723004, SRT, "01:02:03,004"},
		{62345, VTT, "00:01:02.345"},
		{1500, ASS, "0:00:01.50"},
		{1509, ASS, "0:00:01.50"},
		{3250, SBV, "0:00:03.250"},
		{62500, LRC, "01:02.50"},
		{75 * 60000, LRC, "75:00.00"},
		{4100, Sidecar, "00:00:04.100"},
		{-20, SRT, "00:00:00,000"},
		{0, VTT, "00:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.grammar.String()+"/"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.ms, tt.grammar))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []Millis{0, 1, 999, 1000, 59999, 60000, 3599999, 3600000, 86399999}
	for _, g := range []Grammar{SRT, VTT, SBV, Sidecar} {
		for _, v := range values {
			got, err := Parse(Format(v, g), g)
			require.NoError(t, err)
			assert.Equal(t, v, got, "grammar %s", g)
		}
	}

	// centisecond grammars only round-trip on 10ms boundaries
	for _, g := range []Grammar{ASS, LRC} {
		for _, v := range []Millis{0, 10, 990, 62500, 3599990} {
			got, err := Parse(Format(v, g), g)
			require.NoError(t, err)
			assert.Equal(t, v, got, "grammar %s", g)
		}
	}
}

func TestParseLenient(t *testing.T) {
	got, err := ParseLenient("1500")
	require.NoError(t, err)
	assert.Equal(t, Millis(1500), got)

	got, err = ParseLenient("00:01:00.250")
	require.NoError(t, err)
	assert.Equal(t, Millis(60250), got)

	got, err = ParseLenient("01:30.000")
	require.NoError(t, err)
	assert.Equal(t, Millis(90000), got)

	_, err = ParseLenient("-5")
	assert.Error(t, err)

	_, err = ParseLenient("soon")
	assert.Error(t, err)
}

func TestClampAndDuration(t *testing.T) {
	assert.Equal(t, Millis(0), Millis(-5).Clamp(0, 100))
	assert.Equal(t, Millis(100), Millis(500).Clamp(0, 100))
	assert.Equal(t, Millis(42), Millis(42).Clamp(0, Unbounded))

	assert.Equal(t, 1500*time.Millisecond, Millis(1500).Duration())
	assert.Equal(t, Millis(1500), FromDuration(1500*time.Millisecond+999*time.Microsecond))
}
