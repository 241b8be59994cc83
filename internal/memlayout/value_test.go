package memlayout

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseValueHexWithUnit(t *testing.T) {
	v := ParseValue("28 kB (0x7000)")
	assert.True(t, v.Present)
	assert.True(t, v.HasHex)
	assert.True(t, v.HasUnit)
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(0x7000), v.Bytes)
	assert.Equal(t, "KB", v.UnitText)
}

func TestParseValueInconsistent(t *testing.T) {
	// 32 kB is 0x8000, not 0x7000. Hex wins.
	v := ParseValue("32 kB (0x7000)")
	assert.True(t, v.Present)
	assert.False(t, v.Consistent)
	assert.Equal(t, int64(0x7000), v.Bytes)
}

func TestParseValueCommaDecimalSeparator(t *testing.T) {
	v := ParseValue("247,8125 kB")
	assert.True(t, v.Present)
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(247.8125*1024), v.Bytes)
}

func TestParseValueBareForms(t *testing.T) {
	v := ParseValue("0xf0000")
	assert.True(t, v.Present)
	assert.Equal(t, int64(0xf0000), v.Bytes)

	v = ParseValue("4096")
	assert.True(t, v.Present)
	assert.Equal(t, int64(4096), v.Bytes)
	assert.False(t, v.HasHex)
}

func TestParseValueEmpty(t *testing.T) {
	v := ParseValue("   ")
	assert.False(t, v.Present)
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(0), v.Bytes)
}

func TestParseValueMegabytes(t *testing.T) {
	v := ParseValue("1 MB (0x100000)")
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(1024*1024), v.Bytes)
}

// Rendering a byte count and parsing it back always yields the same byte
// count, because the hex form is authoritative and lossless.
func TestPropertyFormatParseRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("FormatBytes then ParseValue is identity on bytes", prop.ForAll(
		func(b int64) bool {
			v := ParseValue(FormatBytes(b, false))
			return v.Present && v.Bytes == b
		},
		gen.Int64Range(0, 1<<32),
	))

	properties.Property("ParseValue is idempotent on its own hex rendering", prop.ForAll(
		func(b int64) bool {
			first := ParseValue(FormatBytes(b, false))
			second := ParseValue(FormatBytes(first.Bytes, false))
			return first.Bytes == second.Bytes
		},
		gen.Int64Range(0, 1<<32),
	))

	properties.TestingRun(t)
}
