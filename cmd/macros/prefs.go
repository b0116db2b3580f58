package main

import (
	"database/sql"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/enricosaito/nutri-macros-mobile-sub000/internal/localstore"
	"github.com/spf13/cobra"
)

func newPrefsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage local preferences used as calc defaults",
	}
	cmd.AddCommand(newPrefsSetCmd(root), newPrefsGetCmd(root))
	return cmd
}

func newPrefsSetCmd(root *rootOptions) *cobra.Command {
	values := map[string]*string{
		localstore.KeyUnits:         new(string),
		localstore.KeyActivityLevel: new(string),
		localstore.KeyGoal:          new(string),
		localstore.KeyTheme:         new(string),
	}
	flagKeys := map[string]string{
		"units":    localstore.KeyUnits,
		"activity": localstore.KeyActivityLevel,
		"goal":     localstore.KeyGoal,
		"theme":    localstore.KeyTheme,
	}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set preference values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withDB(func(db *sql.DB) error {
				flags := make([]string, 0, len(flagKeys))
				for flag := range flagKeys {
					flags = append(flags, flag)
				}
				sort.Strings(flags)

				updates := 0
				for _, flag := range flags {
					if !cmd.Flags().Changed(flag) {
						continue
					}
					key := flagKeys[flag]
					if err := localstore.Set(db, key, *values[key]); err != nil {
						return err
					}
					updates++
				}
				if updates == 0 {
					return fmt.Errorf("set at least one flag")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d preference(s)\n", updates)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(values[localstore.KeyUnits], "units", "", "metric or imperial")
	f.StringVar(values[localstore.KeyActivityLevel], "activity", "", "Default activity level")
	f.StringVar(values[localstore.KeyGoal], "goal", "", "Default goal")
	f.StringVar(values[localstore.KeyTheme], "theme", "", "light, dark or system")
	return cmd
}

func newPrefsGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withDB(func(db *sql.DB) error {
				all, err := localstore.List(db)
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(all))
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tVALUE")
				for _, k := range keys {
					fmt.Fprintf(tw, "%s\t%s\n", k, all[k])
				}
				return tw.Flush()
			})
		},
	}
}
