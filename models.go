package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// calculationRecord maps to the calculations table: the normalized profile
// that went into the engine and the result that came out.
type calculationRecord struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int       `json:"user_id" db:"user_id"`
	Sex           string    `json:"sex" db:"sex"`
	Age           int       `json:"age" db:"age"`
	WeightKg      float64   `json:"weight_kg" db:"weight_kg"`
	HeightCm      float64   `json:"height_cm" db:"height_cm"`
	ActivityLevel string    `json:"activity_level" db:"activity_level"`
	Goal          string    `json:"goal" db:"goal"`
	BMR           float64   `json:"bmr" db:"bmr"`
	TDEE          float64   `json:"tdee" db:"tdee"`
	Calories      int       `json:"calories" db:"calories"`
	ProteinG      int       `json:"protein_g" db:"protein_g"`
	CarbsG        int       `json:"carbs_g" db:"carbs_g"`
	FatG          int       `json:"fat_g" db:"fat_g"`
	Infeasible    bool      `json:"infeasible" db:"infeasible"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// userPreferences maps to user_preferences. One row per user, created with
// defaults at registration.
type userPreferences struct {
	UserID               int       `json:"user_id"                db:"user_id"`
	Units                string    `json:"units"                  db:"units"`
	Theme                string    `json:"theme"                  db:"theme"`
	DefaultActivityLevel string    `json:"default_activity_level" db:"default_activity_level"`
	DefaultGoal          string    `json:"default_goal"           db:"default_goal"`
	UpdatedAt            time.Time `json:"updated_at"             db:"updated_at"`
}

/* ─── Requests / responses ───────────────────────────────────────────── */

// profileRequest is the body for POST /api/calculate and POST /api/calculations.
// Weight and height are in the unit system named by Units (metric by default:
// kg and cm; imperial: lbs and inches). The numeric fields are pointers so an
// omitted value is told apart from a zero.
type profileRequest struct {
	Sex           string   `json:"sex"`
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	ActivityLevel string   `json:"activity_level"`
	Goal          string   `json:"goal"`
	Units         string   `json:"units"`
}

var errMissingFields = errors.New("missing required fields")

// missingFields lists the numeric fields absent from the body, in body order.
func (r profileRequest) missingFields() []string {
	missing := []string{}
	if r.Age == nil {
		missing = append(missing, "age")
	}
	if r.Weight == nil {
		missing = append(missing, "weight")
	}
	if r.Height == nil {
		missing = append(missing, "height")
	}
	return missing
}

// toProfile parses the enum strings and converts to metric. Range checks are
// left to the engine. Absent numbers are an error, never clamped.
func (r profileRequest) toProfile() (nutrition.Profile, error) {
	if missing := r.missingFields(); len(missing) > 0 {
		return nutrition.Profile{}, fmt.Errorf("%w: %s", errMissingFields, strings.Join(missing, ", "))
	}
	sex, err := nutrition.ParseSex(r.Sex)
	if err != nil {
		return nutrition.Profile{}, err
	}
	level, err := nutrition.ParseActivityLevel(r.ActivityLevel)
	if err != nil {
		return nutrition.Profile{}, err
	}
	goal, err := nutrition.ParseGoal(r.Goal)
	if err != nil {
		return nutrition.Profile{}, err
	}
	units, err := nutrition.ParseUnits(r.Units)
	if err != nil {
		return nutrition.Profile{}, err
	}
	weightKg, heightCm := units.ToMetric(*r.Weight, *r.Height)
	return nutrition.Profile{
		Sex:           sex,
		Age:           *r.Age,
		WeightKg:      weightKg,
		HeightCm:      heightCm,
		ActivityLevel: level,
		Goal:          goal,
	}, nil
}

// calculationResponse is what the client renders. BMR and TDEE are rounded to
// one decimal for display; the macro targets are exact engine output.
type calculationResponse struct {
	Profile        nutrition.Profile   `json:"profile"`
	AdjustedFields []string            `json:"adjusted_fields"`
	BMR            float64             `json:"bmr"`
	TDEE           float64             `json:"tdee"`
	Calories       int                 `json:"calories"`
	ProteinG       int                 `json:"protein_g"`
	CarbsG         int                 `json:"carbs_g"`
	FatG           int                 `json:"fat_g"`
	Warnings       []nutrition.Warning `json:"warnings"`
}

func newCalculationResponse(calc nutrition.Calculation) calculationResponse {
	resp := calculationResponse{
		Profile:        calc.Profile,
		AdjustedFields: calc.Adjusted,
		BMR:            round1(calc.BMR),
		TDEE:           round1(calc.TDEE),
		Calories:       calc.Macros.Calories,
		ProteinG:       calc.Macros.ProteinG,
		CarbsG:         calc.Macros.CarbsG,
		FatG:           calc.Macros.FatG,
		Warnings:       calc.Macros.Warnings,
	}
	// Ensure empty arrays (not null) in JSON
	if resp.AdjustedFields == nil {
		resp.AdjustedFields = []string{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []nutrition.Warning{}
	}
	return resp
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// patchPreferencesRequest is the request body for PATCH /api/preferences.
// Only non-nil fields are written.
type patchPreferencesRequest struct {
	Units                *string `json:"units"`
	Theme                *string `json:"theme"`
	DefaultActivityLevel *string `json:"default_activity_level"`
	DefaultGoal          *string `json:"default_goal"`
}
