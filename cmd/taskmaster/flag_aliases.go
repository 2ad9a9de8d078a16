package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// requestFlagAliases maps accepted spellings to the task request flags.
var requestFlagAliases = map[string]string{
	"desc":   "description",
	"cat":    "category",
	"place":  "stop",
	"litres": "quantity",
	"liters": "quantity",
	"size":   "package",
}

func addRequestFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), requestFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if target, ok := aliases[name]; ok {
			name = target
		}
		return normalize(f, name)
	})
}
