package main

import (
	"database/sql"

	"github.com/enricosaito/nutri-macros-mobile-sub000/internal/localstore"
	"github.com/spf13/cobra"
)

// rootOptions carries the persistent flags down to subcommands.
type rootOptions struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "macros",
		Short:         "macros computes daily calorie and macronutrient targets",
		Long:          "macros estimates BMR and TDEE with Mifflin-St Jeor and splits a goal-adjusted calorie target into protein, carbs and fat.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the local preferences database")

	cmd.AddCommand(newCalcCmd(opts), newPrefsCmd(opts))
	return cmd
}

// withDB opens the preferences database for the duration of run.
func (o *rootOptions) withDB(run func(*sql.DB) error) error {
	path := o.dbPath
	if path == "" {
		p, err := localstore.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	db, err := localstore.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return run(db)
}
