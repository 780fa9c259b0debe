package dimension

import (
	"regexp"
	"strconv"
	"strings"
)

// Ring gauges outside this range are assumed to be lengths.
const (
	MinRingGauge = 20
	MaxRingGauge = 70
)

var reCrossPair = regexp.MustCompile(`(\d+)\s*[xX×*]\s*(\d+)`)

// Info holds a parsed ring gauge / length pair. Values are kept as text
// because the "RG/LENGTH" notation is passed through unvalidated; empty
// means absent.
type Info struct {
	RingGauge string `json:"ring_gauge,omitempty"`
	Length    string `json:"length,omitempty"`
}

// Empty reports whether neither value was found.
func (i Info) Empty() bool {
	return i.RingGauge == "" && i.Length == ""
}

// Complete reports whether both values are present.
func (i Info) Complete() bool {
	return i.RingGauge != "" && i.Length != ""
}

// RingGaugeValue returns the ring gauge as a number.
func (i Info) RingGaugeValue() (float64, bool) {
	return parseNumber(i.RingGauge)
}

// LengthValue returns the length as a number.
func (i Info) LengthValue() (float64, bool) {
	return parseNumber(i.Length)
}

// String renders the pair in "RG/LENGTH" form, or "" when incomplete.
func (i Info) String() string {
	return FormatDimensions(i.RingGauge, i.Length)
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDimensions reads "RG/LENGTH" or "A x B". For the cross form the
// operand inside the ring-gauge range is taken as the ring gauge; when that
// does not decide it, the first operand is the length.
func ParseDimensions(s string) Info {
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 2 {
			return Info{
				RingGauge: strings.TrimSpace(parts[0]),
				Length:    strings.TrimSpace(parts[1]),
			}
		}
	}

	m := reCrossPair.FindStringSubmatch(s)
	if m == nil {
		return Info{}
	}
	a, errA := strconv.Atoi(m[1])
	b, errB := strconv.Atoi(m[2])
	if errA != nil || errB != nil {
		return Info{}
	}

	length, ring := a, b
	switch {
	case a > b && inRingRange(b):
		length, ring = a, b
	case b > a && inRingRange(a):
		length, ring = b, a
	}
	return Info{
		RingGauge: strconv.Itoa(ring),
		Length:    strconv.Itoa(length),
	}
}

func inRingRange(v int) bool {
	return v >= MinRingGauge && v <= MaxRingGauge
}

// FormatDimensions returns "RG/LENGTH", or "" if either side is empty.
func FormatDimensions(ringGauge, length string) string {
	if ringGauge == "" || length == "" {
		return ""
	}
	return ringGauge + "/" + length
}

// Unit is a length unit understood by ConvertDimension.
type Unit string

const (
	Millimeter Unit = "mm"
	Centimeter Unit = "cm"
	Inch       Unit = "inch"
)

var mmPerUnit = map[Unit]float64{
	Millimeter: 1,
	Centimeter: 10,
	Inch:       25.4,
}

// ConvertDimension converts value between mm, cm and inch through millimetres.
// An unknown source unit is treated as millimetres and an unknown target unit
// yields the millimetre value.
func ConvertDimension(value float64, from, to Unit) float64 {
	mm := value
	if f, ok := mmPerUnit[from]; ok {
		mm = value * f
	}
	if f, ok := mmPerUnit[to]; ok {
		return mm / f
	}
	return mm
}
