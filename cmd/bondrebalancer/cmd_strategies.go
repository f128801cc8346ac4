package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/bond-rebalancer/internal/strategy"
)

// strategiesCmd represents the strategies command
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available weighting strategies",
	RunE:  runStrategies,
}

var strategiesFormat string

func init() {
	rootCmd.AddCommand(strategiesCmd)

	strategiesCmd.Flags().StringVar(&strategiesFormat, "format", "table", "Output format: table, json")
}

func runStrategies(cmd *cobra.Command, args []string) error {
	list := strategy.List()

	if strategiesFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTARGET DURATION\tDESCRIPTION")
	for _, s := range list {
		required := "-"
		if s.RequiresTargetDuration {
			required = "required"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, required, s.Description)
	}
	return tw.Flush()
}
