package nutrition

import (
	"fmt"
	"math"
)

// RangePolicy decides what Validate does with out-of-range numeric input.
type RangePolicy int

const (
	// Clamp silently moves the value to the nearest bound. This matches what
	// the mobile number inputs have always done at the edit boundary.
	Clamp RangePolicy = iota
	// Reject fails with ErrOutOfRange.
	Reject
)

// ParseRangePolicy accepts "clamp" (or "") and "reject".
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch normalize(s) {
	case "", "clamp":
		return Clamp, nil
	case "reject":
		return Reject, nil
	default:
		return Clamp, enumError("range_policy", s, "clamp, reject")
	}
}

func (p RangePolicy) String() string {
	if p == Reject {
		return "reject"
	}
	return "clamp"
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Accepted input ranges.
var (
	AgeRange    = Range{Min: 15, Max: 100}
	WeightRange = Range{Min: 30, Max: 250}
	HeightRange = Range{Min: 100, Max: 250}
)

func (r Range) clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Validate checks the enum fields of p and brings its numeric fields into
// range according to policy. It returns the normalized profile and the json
// names of any fields it clamped.
func Validate(p Profile, policy RangePolicy) (Profile, []string, error) {
	if _, ok := bmrSexConstant[p.Sex]; !ok {
		return Profile{}, nil, enumError("sex", string(p.Sex), "male, female")
	}
	if _, err := p.ActivityLevel.Multiplier(); err != nil {
		return Profile{}, nil, err
	}
	if _, err := p.Goal.Policy(); err != nil {
		return Profile{}, nil, err
	}

	var clamped []string
	check := func(field string, v float64, r Range) (float64, error) {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("%w: %s is not a number", ErrOutOfRange, field)
		}
		if r.contains(v) {
			return v, nil
		}
		if policy == Reject {
			return 0, fmt.Errorf("%w: %s %g must be between %g and %g", ErrOutOfRange, field, v, r.Min, r.Max)
		}
		clamped = append(clamped, field)
		return r.clamp(v), nil
	}

	age, err := check("age", float64(p.Age), AgeRange)
	if err != nil {
		return Profile{}, nil, err
	}
	if p.WeightKg, err = check("weight_kg", p.WeightKg, WeightRange); err != nil {
		return Profile{}, nil, err
	}
	if p.HeightCm, err = check("height_cm", p.HeightCm, HeightRange); err != nil {
		return Profile{}, nil, err
	}
	p.Age = int(age)
	return p, clamped, nil
}
