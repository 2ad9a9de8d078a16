package main

import (
	"fmt"

	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/roster"
	"github.com/spf13/cobra"
)

var taskersCmd = &cobra.Command{
	Use:   "taskers",
	Short: "List the TaskMaster roster",
	Args:  cobra.NoArgs,
	RunE:  runTaskers,
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List the sample places usable as stops",
	Args:  cobra.NoArgs,
	RunE:  runPlaces,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List suggested tasks",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

var listJSON bool

func init() {
	rootCmd.AddCommand(taskersCmd, placesCmd, templatesCmd)
	for _, cmd := range []*cobra.Command{taskersCmd, placesCmd, templatesCmd} {
		cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	}
}

func runTaskers(cmd *cobra.Command, args []string) error {
	taskers := roster.Taskers()
	if listJSON {
		return encodeJSON(cmd.OutOrStdout(), taskers)
	}
	builder := ui.NewTableBuilder([]string{"ID", "NAME", "RATING", "VEHICLE", "PHONE"}, len(taskers))
	for _, tasker := range taskers {
		builder.AddRow([]string{tasker.ID, tasker.Name, fmt.Sprintf("%.1f", tasker.Rating), tasker.Vehicle, tasker.Phone})
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}

func runPlaces(cmd *cobra.Command, args []string) error {
	places := roster.Places()
	if listJSON {
		return encodeJSON(cmd.OutOrStdout(), places)
	}
	builder := ui.NewTableBuilder([]string{"NAME", "ADDRESS", "LAT", "LNG"}, len(places))
	for _, place := range places {
		builder.AddRow([]string{place.Key, place.Address, fmt.Sprintf("%.4f", place.Point.Lat), fmt.Sprintf("%.4f", place.Point.Lng)})
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}

func runTemplates(cmd *cobra.Command, args []string) error {
	templates := roster.Templates()
	if listJSON {
		return encodeJSON(cmd.OutOrStdout(), templates)
	}
	builder := ui.NewTableBuilder([]string{"ID", "CATEGORY", "TITLE", "DESCRIPTION"}, len(templates))
	for _, template := range templates {
		builder.AddRow([]string{template.ID, string(template.Category), template.Emoji + " " + template.Title, ui.TruncateTableCell(template.Description)})
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
