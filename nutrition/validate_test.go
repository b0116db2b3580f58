package nutrition

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func validProfile() Profile {
	return Profile{
		Sex: Male, Age: 30, WeightKg: 70, HeightCm: 170,
		ActivityLevel: Moderate, Goal: Maintain,
	}
}

/* ─── Clamp policy ───────────────────────────────────────────────────── */

// TestValidate_ClampsEachField verifies that out-of-range values move to the
// nearest bound and that the clamped field is reported.
func TestValidate_ClampsEachField(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *Profile)
		check func(p Profile) bool
		field string
	}{
		{"age low", func(p *Profile) { p.Age = 10 }, func(p Profile) bool { return p.Age == 15 }, "age"},
		{"age high", func(p *Profile) { p.Age = 130 }, func(p Profile) bool { return p.Age == 100 }, "age"},
		{"weight low", func(p *Profile) { p.WeightKg = 12 }, func(p Profile) bool { return p.WeightKg == 30 }, "weight_kg"},
		{"weight high", func(p *Profile) { p.WeightKg = 400 }, func(p Profile) bool { return p.WeightKg == 250 }, "weight_kg"},
		{"weight +inf", func(p *Profile) { p.WeightKg = math.Inf(1) }, func(p Profile) bool { return p.WeightKg == 250 }, "weight_kg"},
		{"height low", func(p *Profile) { p.HeightCm = 50 }, func(p Profile) bool { return p.HeightCm == 100 }, "height_cm"},
		{"height high", func(p *Profile) { p.HeightCm = 300 }, func(p Profile) bool { return p.HeightCm == 250 }, "height_cm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutFn(&p)
			got, clamped, err := Validate(p, Clamp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(got) {
				t.Errorf("value not clamped: %+v", got)
			}
			if !reflect.DeepEqual(clamped, []string{tc.field}) {
				t.Errorf("clamped = %v, want [%s]", clamped, tc.field)
			}
		})
	}
}

// TestValidate_BoundsAreInclusive verifies values exactly on the bounds pass
// unchanged under both policies.
func TestValidate_BoundsAreInclusive(t *testing.T) {
	for _, policy := range []RangePolicy{Clamp, Reject} {
		for _, p := range []Profile{
			{Sex: Female, Age: 15, WeightKg: 30, HeightCm: 100, ActivityLevel: Light, Goal: GainMuscle},
			{Sex: Female, Age: 100, WeightKg: 250, HeightCm: 250, ActivityLevel: Light, Goal: GainMuscle},
		} {
			got, clamped, err := Validate(p, policy)
			if err != nil {
				t.Fatalf("%s: unexpected error for %+v: %v", policy, p, err)
			}
			if got != p || len(clamped) != 0 {
				t.Errorf("%s: profile changed: %+v -> %+v (clamped %v)", policy, p, got, clamped)
			}
		}
	}
}

// TestCalculate_ClampedAgeGivesFinitePositiveBMR verifies the age extremes
// never error and yield a usable BMR even at the smallest body size.
func TestCalculate_ClampedAgeGivesFinitePositiveBMR(t *testing.T) {
	for _, age := range []int{0, 15, 100, 250} {
		c, err := Calculate(Profile{
			Sex: Female, Age: age, WeightKg: 30, HeightCm: 100,
			ActivityLevel: Sedentary, Goal: LoseWeight,
		})
		if err != nil {
			t.Fatalf("age %d: unexpected error: %v", age, err)
		}
		if math.IsInf(c.BMR, 0) || math.IsNaN(c.BMR) || c.BMR <= 0 {
			t.Errorf("age %d: BMR = %v, want finite and positive", age, c.BMR)
		}
		if c.Profile.Age < 15 || c.Profile.Age > 100 {
			t.Errorf("age %d: not clamped, got %d", age, c.Profile.Age)
		}
	}
}

/* ─── Reject policy ──────────────────────────────────────────────────── */

// TestValidate_RejectOutOfRange verifies the strict policy fails just past
// each bound with ErrOutOfRange.
func TestValidate_RejectOutOfRange(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *Profile)
	}{
		{"age 14", func(p *Profile) { p.Age = 14 }},
		{"age 101", func(p *Profile) { p.Age = 101 }},
		{"weight 29.9", func(p *Profile) { p.WeightKg = 29.9 }},
		{"weight 250.1", func(p *Profile) { p.WeightKg = 250.1 }},
		{"height 99.5", func(p *Profile) { p.HeightCm = 99.5 }},
		{"height 251", func(p *Profile) { p.HeightCm = 251 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutFn(&p)
			if _, _, err := Validate(p, Reject); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
			if _, err := (Engine{Policy: Reject}).Calculate(p); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("engine: expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

// TestValidate_NaNAlwaysRejected verifies NaN is not clamped under either
// policy since it has no nearest bound.
func TestValidate_NaNAlwaysRejected(t *testing.T) {
	for _, policy := range []RangePolicy{Clamp, Reject} {
		p := validProfile()
		p.HeightCm = math.NaN()
		if _, _, err := Validate(p, policy); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange for NaN height, got %v", policy, err)
		}
	}
}

// TestValidate_InvalidEnums verifies enum checks run before range checks.
func TestValidate_InvalidEnums(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *Profile)
	}{
		{"sex", func(p *Profile) { p.Sex = "unknown" }},
		{"activity", func(p *Profile) { p.ActivityLevel = "" }},
		{"goal", func(p *Profile) { p.Goal = "recomp" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			p.Age = 500
			tc.mutFn(&p)
			if _, _, err := Validate(p, Reject); !errors.Is(err, ErrInvalidEnum) {
				t.Errorf("expected ErrInvalidEnum, got %v", err)
			}
		})
	}
}

/* ─── Parsing ────────────────────────────────────────────────────────── */

// TestParse_NormalizesCaseAndSpace verifies user-typed values are accepted in
// any case with surrounding whitespace.
func TestParse_NormalizesCaseAndSpace(t *testing.T) {
	if s, err := ParseSex("  Female "); err != nil || s != Female {
		t.Errorf("ParseSex = %q, %v", s, err)
	}
	if a, err := ParseActivityLevel("EXTRA_ACTIVE"); err != nil || a != ExtraActive {
		t.Errorf("ParseActivityLevel = %q, %v", a, err)
	}
	if g, err := ParseGoal("Gain_Muscle"); err != nil || g != GainMuscle {
		t.Errorf("ParseGoal = %q, %v", g, err)
	}
	if u, err := ParseUnits(""); err != nil || u != Metric {
		t.Errorf("ParseUnits(\"\") = %q, %v", u, err)
	}
	if p, err := ParseRangePolicy("Reject"); err != nil || p != Reject {
		t.Errorf("ParseRangePolicy = %v, %v", p, err)
	}
}

// TestParse_RejectsUnknown verifies unknown values fail with ErrInvalidEnum.
func TestParse_RejectsUnknown(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
	}{
		{"sex", func() error { _, err := ParseSex("m"); return err }},
		{"activity", func() error { _, err := ParseActivityLevel("very_active"); return err }},
		{"goal", func() error { _, err := ParseGoal("cut"); return err }},
		{"units", func() error { _, err := ParseUnits("stones"); return err }},
		{"policy", func() error { _, err := ParseRangePolicy("strict"); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !errors.Is(err, ErrInvalidEnum) {
				t.Errorf("expected ErrInvalidEnum, got %v", err)
			}
		})
	}
}

/* ─── Units ──────────────────────────────────────────────────────────── */

// TestUnits_ToMetric verifies imperial input is converted and metric input
// passes through.
func TestUnits_ToMetric(t *testing.T) {
	w, h := Imperial.ToMetric(154.3234, 70)
	if math.Abs(w-70) > 1e-3 {
		t.Errorf("weight = %v, want ~70kg", w)
	}
	if math.Abs(h-177.8) > 1e-9 {
		t.Errorf("height = %v, want 177.8cm", h)
	}
	if w, h := Metric.ToMetric(80, 180); w != 80 || h != 180 {
		t.Errorf("metric changed values: %v, %v", w, h)
	}
	if got := PoundsToKg(KgToPounds(82.5)); math.Abs(got-82.5) > 1e-9 {
		t.Errorf("round trip = %v, want 82.5", got)
	}
}
