package nutrition

// Units is the measurement system a client entered weight and height in.
type Units string

const (
	Metric   Units = "metric"   // kilograms, centimetres
	Imperial Units = "imperial" // pounds, inches
)

const (
	lbsPerKg = 2.20462
	cmPerIn  = 2.54
)

// ParseUnits normalizes s; an empty string means Metric.
func ParseUnits(s string) (Units, error) {
	switch u := Units(normalize(s)); u {
	case "", Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", enumError("units", s, "metric, imperial")
	}
}

// PoundsToKg converts a weight in pounds to kilograms.
func PoundsToKg(lbs float64) float64 { return lbs / lbsPerKg }

// KgToPounds converts a weight in kilograms to pounds.
func KgToPounds(kg float64) float64 { return kg * lbsPerKg }

// InchesToCm converts a height in inches to centimetres.
func InchesToCm(in float64) float64 { return in * cmPerIn }

// ToMetric returns weight in kg and height in cm for values entered in u.
func (u Units) ToMetric(weight, height float64) (weightKg, heightCm float64) {
	if u == Imperial {
		return PoundsToKg(weight), InchesToCm(height)
	}
	return weight, height
}
