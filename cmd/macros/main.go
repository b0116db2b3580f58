// Command macros computes daily calorie and macro targets from the terminal
// and keeps default inputs as local preferences.
//
// Usage:
//
//	macros calc --sex female --age 25 --weight 60 --height 165 --activity sedentary --goal lose_weight
//	macros prefs set --units imperial --goal gain_muscle
//	macros prefs get
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
