package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDimensions(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Info
	}{
		{name: "slash form", input: "52/178", expected: Info{RingGauge: "52", Length: "178"}},
		{name: "slash form trimmed", input: " 50 / 124 mm", expected: Info{RingGauge: "50", Length: "124 mm"}},
		{name: "slash form not validated", input: "abc/def", expected: Info{RingGauge: "abc", Length: "def"}},
		{name: "length x ring", input: "178x52", expected: Info{RingGauge: "52", Length: "178"}},
		{name: "ring x length", input: "52 × 178", expected: Info{RingGauge: "52", Length: "178"}},
		{name: "upper X and star", input: "124*50", expected: Info{RingGauge: "50", Length: "124"}},
		{name: "undecided defaults to length first", input: "15x10", expected: Info{RingGauge: "10", Length: "15"}},
		{name: "equal operands", input: "50X50", expected: Info{RingGauge: "50", Length: "50"}},
		{name: "multi slash falls through to cross", input: "1/2/3 140x42", expected: Info{RingGauge: "42", Length: "140"}},
		{name: "multi slash without cross", input: "1/2/3", expected: Info{}},
		{name: "nothing", input: "Robusto", expected: Info{}},
		{name: "empty", input: "", expected: Info{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseDimensions(tc.input))
		})
	}
}

func TestInfoAccessors(t *testing.T) {
	info := ParseDimensions("52/178")
	rg, ok := info.RingGaugeValue()
	assert.True(t, ok)
	assert.Equal(t, 52.0, rg)
	l, ok := info.LengthValue()
	assert.True(t, ok)
	assert.Equal(t, 178.0, l)
	assert.True(t, info.Complete())
	assert.Equal(t, "52/178", info.String())

	_, ok = Info{RingGauge: "abc"}.RingGaugeValue()
	assert.False(t, ok)
	assert.True(t, Info{}.Empty())
	assert.False(t, Info{Length: "1"}.Complete())
}

func TestFormatDimensions(t *testing.T) {
	assert.Equal(t, "52/178", FormatDimensions("52", "178"))
	assert.Equal(t, "", FormatDimensions("", "178"))
	assert.Equal(t, "", FormatDimensions("52", ""))
}

func TestConvertDimension(t *testing.T) {
	assert.InDelta(t, 17.8, ConvertDimension(178, Millimeter, Centimeter), 1e-9)
	assert.InDelta(t, 127.0, ConvertDimension(5, Inch, Millimeter), 1e-9)
	assert.InDelta(t, 2.0, ConvertDimension(50.8, Millimeter, Inch), 1e-9)
	assert.InDelta(t, 7.0, ConvertDimension(7, Centimeter, Centimeter), 1e-9)

	// Unknown source: value taken as millimetres.
	assert.InDelta(t, 1.0, ConvertDimension(10, "furlong", Centimeter), 1e-9)
	// Unknown target: millimetre value returned.
	assert.InDelta(t, 50.8, ConvertDimension(2, Inch, "furlong"), 1e-9)
}
