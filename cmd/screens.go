package cmd

import (
	"fmt"
	"strings"

	"ragbot/pkg/menu"

	"github.com/spf13/cobra"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "Validate and list the menu screens",
	Long:  "Builds the default menu graph, validates it, and prints every screen and registered action.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = args

		graph, err := menu.NewDefaultGraph()
		if err != nil {
			return fmt.Errorf("menu graph invalid: %w", err)
		}

		out := cmd.OutOrStdout()
		ids := graph.ScreenIDs()
		fmt.Fprintf(out, "%d screens:\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(out, "  %s\n", id)
		}

		actions := menu.Actions()
		fmt.Fprintf(out, "%d actions: %s\n", len(actions), strings.Join(actions, ", "))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(screensCmd)
}
