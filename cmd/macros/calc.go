package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/enricosaito/nutri-macros-mobile-sub000/internal/localstore"
	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	sex      string
	age      int
	weight   float64
	height   float64
	activity string
	goal     string
	units    string
	strict   bool
	asJSON   bool
}

func newCalcCmd(root *rootOptions) *cobra.Command {
	o := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate calorie and macro targets",
		Long: "Calculate calorie and macro targets. --activity, --goal and --units fall back to the " +
			"stored preferences, then to moderate, maintain and metric.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withDB(func(db *sql.DB) error {
				prefs, err := localstore.Load(db)
				if err != nil {
					return err
				}
				o.applyDefaults(cmd, prefs)

				profile, err := o.profile()
				if err != nil {
					return err
				}
				engine := nutrition.Engine{Policy: nutrition.Clamp}
				if o.strict {
					engine.Policy = nutrition.Reject
				}
				calc, err := engine.Calculate(profile)
				if err != nil {
					return err
				}
				if o.asJSON {
					return writeJSON(cmd.OutOrStdout(), calc)
				}
				writeTable(cmd.OutOrStdout(), calc)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.sex, "sex", "", "male or female")
	f.IntVar(&o.age, "age", 0, "Age in years")
	f.Float64Var(&o.weight, "weight", 0, "Body weight (kg, or lbs with --units imperial)")
	f.Float64Var(&o.height, "height", 0, "Height (cm, or inches with --units imperial)")
	f.StringVar(&o.activity, "activity", "", "sedentary, light, moderate, active or extra_active")
	f.StringVar(&o.goal, "goal", "", "lose_weight, maintain or gain_muscle")
	f.StringVar(&o.units, "units", "", "metric or imperial")
	f.BoolVar(&o.strict, "strict", false, "Reject out-of-range input instead of clamping it")
	f.BoolVar(&o.asJSON, "json", false, "Print the full calculation as JSON")
	for _, name := range []string{"sex", "age", "weight", "height"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// applyDefaults fills unset flags from stored preferences, then built-in defaults.
func (o *calcOptions) applyDefaults(cmd *cobra.Command, prefs localstore.Prefs) {
	pick := func(flag string, current *string, stored, fallback string) {
		if cmd.Flags().Changed(flag) {
			return
		}
		if stored != "" {
			*current = stored
			return
		}
		*current = fallback
	}
	pick("activity", &o.activity, string(prefs.ActivityLevel), string(nutrition.Moderate))
	pick("goal", &o.goal, string(prefs.Goal), string(nutrition.Maintain))
	pick("units", &o.units, string(prefs.Units), string(nutrition.Metric))
}

func (o *calcOptions) profile() (nutrition.Profile, error) {
	sex, err := nutrition.ParseSex(o.sex)
	if err != nil {
		return nutrition.Profile{}, err
	}
	level, err := nutrition.ParseActivityLevel(o.activity)
	if err != nil {
		return nutrition.Profile{}, err
	}
	goal, err := nutrition.ParseGoal(o.goal)
	if err != nil {
		return nutrition.Profile{}, err
	}
	units, err := nutrition.ParseUnits(o.units)
	if err != nil {
		return nutrition.Profile{}, err
	}
	w, h := units.ToMetric(o.weight, o.height)
	return nutrition.Profile{
		Sex: sex, Age: o.age, WeightKg: w, HeightCm: h,
		ActivityLevel: level, Goal: goal,
	}, nil
}

func writeJSON(w io.Writer, calc nutrition.Calculation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(calc)
}

func writeTable(w io.Writer, calc nutrition.Calculation) {
	m := calc.Macros
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Calories\t%d kcal\n", m.Calories)
	fmt.Fprintf(tw, "Protein\t%d g\n", m.ProteinG)
	fmt.Fprintf(tw, "Carbs\t%d g\n", m.CarbsG)
	fmt.Fprintf(tw, "Fat\t%d g\n", m.FatG)
	fmt.Fprintf(tw, "BMR\t%.1f kcal/day\n", calc.BMR)
	fmt.Fprintf(tw, "TDEE\t%.1f kcal/day (%s, %s)\n", calc.TDEE, calc.Profile.ActivityLevel, calc.Profile.Goal)
	tw.Flush()

	if len(calc.Adjusted) > 0 {
		fmt.Fprintf(w, "Note: clamped %s into the supported range\n", strings.Join(calc.Adjusted, ", "))
	}
	if err := m.Err(); err != nil {
		fmt.Fprintf(w, "Warning: %v; carbs set to 0\n", err)
	}
}
