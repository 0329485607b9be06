package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/songpengyi/enertalk-alwayson-calculator/app/plugins"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the provider, filter and sink types that can be configured",
	RunE: func(cmd *cobra.Command, _ []string) error {
		types := plugins.Types()
		kinds := make([]string, 0, len(types))
		for k := range types {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, strings.Join(types[k], ", ")); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
