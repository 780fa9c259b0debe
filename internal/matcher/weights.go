package matcher

// Weights are the points each signal contributes and the dimension tolerances.
type Weights struct {
	Brand           int     `json:"brand" mapstructure:"brand"`
	Vitola          int     `json:"vitola" mapstructure:"vitola"`
	Dimension       int     `json:"dimension" mapstructure:"dimension"`
	TermOverlap     int     `json:"term_overlap" mapstructure:"term_overlap"`
	TermOverlapCap  int     `json:"term_overlap_cap" mapstructure:"term_overlap_cap"`
	RingTolerance   float64 `json:"ring_tolerance" mapstructure:"ring_tolerance"`
	LengthTolerance float64 `json:"length_tolerance" mapstructure:"length_tolerance"`
}

// DefaultWeights: brand 40, vitola 20, dimensions 20, 5 per shared term up to 20,
// ring gauge within 2 and length within 10.
func DefaultWeights() Weights {
	return Weights{
		Brand:           40,
		Vitola:          20,
		Dimension:       20,
		TermOverlap:     5,
		TermOverlapCap:  20,
		RingTolerance:   2,
		LengthTolerance: 10,
	}
}

func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	if w.Brand <= 0 {
		w.Brand = d.Brand
	}
	if w.Vitola <= 0 {
		w.Vitola = d.Vitola
	}
	if w.Dimension <= 0 {
		w.Dimension = d.Dimension
	}
	if w.TermOverlap <= 0 {
		w.TermOverlap = d.TermOverlap
	}
	if w.TermOverlapCap <= 0 {
		w.TermOverlapCap = d.TermOverlapCap
	}
	if w.RingTolerance <= 0 {
		w.RingTolerance = d.RingTolerance
	}
	if w.LengthTolerance <= 0 {
		w.LengthTolerance = d.LengthTolerance
	}
	return w
}
