package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskmaster/internal/config"
	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the default configuration",
	Args:  cobra.NoArgs,
	RunE:  runHelpConfig,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpConfigCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# Read from ~/.config/taskmaster/config.toml, then ./%s.\n", config.FileName)
	fmt.Fprintln(out, "# Keys left out keep these values.")
	fmt.Fprintln(out)
	return toml.NewEncoder(out).Encode(config.Default())
}
