package nutrition

import (
	"math"
)

// Fat is held at a fixed share of calories; protein is driven by body weight
// and carbs take whatever is left.
const (
	fatCalorieShare = 0.25
	kcalPerGProtein = 4
	kcalPerGCarbs   = 4
	kcalPerGFat     = 9
)

// ComputeBMR returns basal metabolic rate in kcal/day using Mifflin-St Jeor.
// The result is not rounded.
func ComputeBMR(sex Sex, weightKg, heightCm float64, age int) (float64, error) {
	k, ok := bmrSexConstant[sex]
	if !ok {
		return 0, enumError("sex", string(sex), "male, female")
	}
	return 10*weightKg + 6.25*heightCm - 5*float64(age) + k, nil
}

// ComputeTDEE scales bmr by the activity multiplier.
func ComputeTDEE(bmr float64, level ActivityLevel) (float64, error) {
	m, err := level.Multiplier()
	if err != nil {
		return 0, err
	}
	return bmr * m, nil
}

// ComputeTargetCalories applies the goal's calorie factor to tdee and rounds
// half away from zero.
func ComputeTargetCalories(tdee float64, goal Goal) (int, error) {
	p, err := goal.Policy()
	if err != nil {
		return 0, err
	}
	return int(math.Round(tdee * p.CalorieFactor)), nil
}

// Warning is a non-fatal condition attached to a MacroResult.
type Warning string

// WarnMacroInfeasible means carbs were floored at zero.
const WarnMacroInfeasible Warning = "macro_infeasible"

// MacroResult is the daily target. For a feasible result Calories is within
// 2 kcal of 4*ProteinG + 4*CarbsG + 9*FatG.
type MacroResult struct {
	Calories int       `json:"calories"`
	ProteinG int       `json:"protein_g"`
	CarbsG   int       `json:"carbs_g"`
	FatG     int       `json:"fat_g"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Feasible reports whether carbs did not need to be floored.
func (r MacroResult) Feasible() bool {
	for _, w := range r.Warnings {
		if w == WarnMacroInfeasible {
			return false
		}
	}
	return true
}

// Err returns an *InfeasibleError when the split was infeasible, else nil.
func (r MacroResult) Err() error {
	if r.Feasible() {
		return nil
	}
	return &InfeasibleError{
		TargetCalories: r.Calories,
		RemainingKcal:  r.Calories - r.ProteinG*kcalPerGProtein - r.FatG*kcalPerGFat,
	}
}

// MacroKcal is the energy of the allocated grams.
func (r MacroResult) MacroKcal() int {
	return r.ProteinG*kcalPerGProtein + r.CarbsG*kcalPerGCarbs + r.FatG*kcalPerGFat
}

// AllocateMacros splits targetCalories into gram targets. The steps run in a
// fixed order because carbs are derived from the rounded protein and fat.
// A negative carb allocation is floored at 0 and flagged with
// WarnMacroInfeasible.
func AllocateMacros(targetCalories int, weightKg float64, goal Goal) (MacroResult, error) {
	p, err := goal.Policy()
	if err != nil {
		return MacroResult{}, err
	}

	protein := int(math.Round(weightKg * p.ProteinPerKg))
	fat := int(math.Round(float64(targetCalories) * fatCalorieShare / kcalPerGFat))
	remaining := targetCalories - protein*kcalPerGProtein - fat*kcalPerGFat
	carbs := int(math.Round(float64(remaining) / kcalPerGCarbs))

	r := MacroResult{
		Calories: targetCalories,
		ProteinG: protein,
		CarbsG:   carbs,
		FatG:     fat,
	}
	if carbs < 0 {
		r.CarbsG = 0
		r.Warnings = []Warning{WarnMacroInfeasible}
	}
	return r, nil
}

// Calculation is a full pipeline run: the profile actually used, which
// fields were clamped to get there, and every intermediate value.
type Calculation struct {
	Profile  Profile     `json:"profile"`
	Adjusted []string    `json:"adjusted_fields,omitempty"`
	BMR      float64     `json:"bmr"`
	TDEE     float64     `json:"tdee"`
	Macros   MacroResult `json:"macros"`
}

// Engine runs the pipeline under a range policy. The zero value clamps.
type Engine struct {
	Policy RangePolicy
}

// Calculate runs validate, BMR, TDEE, goal adjustment and macro allocation.
// An infeasible split is not an error here; check Macros.Err().
func (e Engine) Calculate(p Profile) (Calculation, error) {
	p, adjusted, err := Validate(p, e.Policy)
	if err != nil {
		return Calculation{}, err
	}
	bmr, err := ComputeBMR(p.Sex, p.WeightKg, p.HeightCm, p.Age)
	if err != nil {
		return Calculation{}, err
	}
	tdee, err := ComputeTDEE(bmr, p.ActivityLevel)
	if err != nil {
		return Calculation{}, err
	}
	target, err := ComputeTargetCalories(tdee, p.Goal)
	if err != nil {
		return Calculation{}, err
	}
	macros, err := AllocateMacros(target, p.WeightKg, p.Goal)
	if err != nil {
		return Calculation{}, err
	}
	return Calculation{
		Profile:  p,
		Adjusted: adjusted,
		BMR:      bmr,
		TDEE:     tdee,
		Macros:   macros,
	}, nil
}

// Calculate runs the pipeline with the Clamp policy.
func Calculate(p Profile) (Calculation, error) {
	return Engine{}.Calculate(p)
}
