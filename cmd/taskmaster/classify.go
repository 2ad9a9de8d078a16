package main

import (
	"fmt"
	"strings"

	internalstrings "github.com/amonks/taskmaster/internal/strings"
	"github.com/amonks/taskmaster/task"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [description...]",
	Short: "Guess the category of a task description",
	Args:  cobra.ArbitraryArgs,
	RunE:  runClassify,
}

var (
	classifyDescription string
	classifyJSON        bool
)

type classifyResult struct {
	Category    task.Category `json:"category"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addRequestFlagAliases(classifyCmd)
	classifyCmd.Flags().StringVarP(&classifyDescription, "description", "d", "", "Task description")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	description, err := descriptionFromArgs(classifyDescription, args)
	if err != nil {
		return err
	}
	category := task.Classify(description)
	if classifyJSON {
		return encodeJSON(cmd.OutOrStdout(), classifyResult{
			Category:    category,
			Label:       category.Label(),
			Description: category.Description(),
		})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", category.Emoji(), category.Label(), category)
	return err
}

// descriptionFromArgs prefers the flag and falls back to the joined args.
func descriptionFromArgs(flagValue string, args []string) (string, error) {
	description := flagValue
	if internalstrings.IsBlank(description) {
		description = strings.Join(args, " ")
	}
	description = internalstrings.NormalizeWhitespace(description)
	if description == "" {
		return "", fmt.Errorf("description is required")
	}
	return description, nil
}
