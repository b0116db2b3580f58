// Package nutrition computes daily calorie and macronutrient targets from a
// user's body profile: Mifflin-St Jeor BMR, activity-scaled TDEE, a goal
// adjustment, and a protein/fat/carbs split.
//
// Every function is pure. Nothing in this package holds state, so it is safe
// to call from any number of goroutines.
package nutrition

import (
	"fmt"
	"strings"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// bmrSexConstant is added to the shared part of the Mifflin-St Jeor equation.
var bmrSexConstant = map[Sex]float64{
	Male:   5,
	Female: -161,
}

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	Sedentary   ActivityLevel = "sedentary"
	Light       ActivityLevel = "light"
	Moderate    ActivityLevel = "moderate"
	Active      ActivityLevel = "active"
	ExtraActive ActivityLevel = "extra_active"
)

// activityMultipliers maps each activity level to its TDEE multiplier.
// This is the single source of truth for valid activity levels.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:   1.2,
	Light:       1.375,
	Moderate:    1.55,
	Active:      1.725,
	ExtraActive: 1.9,
}

// activityOrder lists activity levels from least to most active.
var activityOrder = []ActivityLevel{Sedentary, Light, Moderate, Active, ExtraActive}

// Multiplier returns the TDEE multiplier for a, or ErrInvalidEnum.
func (a ActivityLevel) Multiplier() (float64, error) {
	m, ok := activityMultipliers[a]
	if !ok {
		return 0, enumError("activity_level", string(a), activityNames())
	}
	return m, nil
}

// Goal selects the calorie adjustment and protein policy.
type Goal string

const (
	LoseWeight Goal = "lose_weight"
	Maintain   Goal = "maintain"
	GainMuscle Goal = "gain_muscle"
)

// GoalPolicy is the calorie factor applied to TDEE and the protein target in
// grams per kilogram of body weight.
type GoalPolicy struct {
	CalorieFactor float64 `json:"calorie_factor"`
	ProteinPerKg  float64 `json:"protein_g_per_kg"`
}

var goalPolicies = map[Goal]GoalPolicy{
	LoseWeight: {CalorieFactor: 0.8, ProteinPerKg: 2.2},
	Maintain:   {CalorieFactor: 1.0, ProteinPerKg: 1.8},
	GainMuscle: {CalorieFactor: 1.1, ProteinPerKg: 2.0},
}

var goalOrder = []Goal{LoseWeight, Maintain, GainMuscle}

// Policy returns the adjustment policy for g, or ErrInvalidEnum.
func (g Goal) Policy() (GoalPolicy, error) {
	p, ok := goalPolicies[g]
	if !ok {
		return GoalPolicy{}, enumError("goal", string(g), goalNames())
	}
	return p, nil
}

// Profile is the engine's input. Weight is kilograms and height centimetres
// regardless of what the user typed; see Units for conversion.
type Profile struct {
	Sex           Sex           `json:"sex"`
	Age           int           `json:"age"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
}

// ActivityLevels returns the valid activity levels, least active first.
func ActivityLevels() []ActivityLevel {
	return append([]ActivityLevel(nil), activityOrder...)
}

// Goals returns the valid goals, smallest calorie target first.
func Goals() []Goal {
	return append([]Goal(nil), goalOrder...)
}

// Sexes returns the valid sex values.
func Sexes() []Sex {
	return []Sex{Male, Female}
}

// ParseSex normalizes s and checks it against the closed set.
func ParseSex(s string) (Sex, error) {
	v := Sex(normalize(s))
	if _, ok := bmrSexConstant[v]; !ok {
		return "", enumError("sex", s, "male, female")
	}
	return v, nil
}

// ParseActivityLevel normalizes s and checks it against the closed set.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(normalize(s))
	if _, err := v.Multiplier(); err != nil {
		return "", enumError("activity_level", s, activityNames())
	}
	return v, nil
}

// ParseGoal normalizes s and checks it against the closed set.
func ParseGoal(s string) (Goal, error) {
	v := Goal(normalize(s))
	if _, err := v.Policy(); err != nil {
		return "", enumError("goal", s, goalNames())
	}
	return v, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func enumError(field, value, allowed string) error {
	return fmt.Errorf("%w: %s %q, must be one of: %s", ErrInvalidEnum, field, value, allowed)
}

func activityNames() string {
	names := make([]string, len(activityOrder))
	for i, a := range activityOrder {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func goalNames() string {
	names := make([]string, len(goalOrder))
	for i, g := range goalOrder {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}
