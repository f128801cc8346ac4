package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/bond-rebalancer/internal/data"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a random sample portfolio",
	Long: `Generate a random bond portfolio with normalized current weights.

Examples:
  bondrebalancer sample
  bondrebalancer sample --bonds 10 --seed 42 --output sample.yaml`,
	RunE: runSample,
}

// Sample command flags
var (
	sampleBonds  int
	sampleSeed   int64
	sampleOutput string
)

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntVar(&sampleBonds, "bonds", data.DefaultSampleBonds, "Number of bonds")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "Random seed (0: time based)")
	sampleCmd.Flags().StringVar(&sampleOutput, "output", "", "Output file, .json or .yaml (default: stdout JSON)")
}

func runSample(cmd *cobra.Command, args []string) error {
	if sampleBonds < 1 {
		return fmt.Errorf("--bonds must be >= 1")
	}
	p := data.GenerateSample(data.SampleOptions{Bonds: sampleBonds, Seed: sampleSeed})

	var (
		out []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(sampleOutput)) {
	case ".yaml", ".yml":
		out, err = yaml.Marshal(p)
	default:
		out, err = json.MarshalIndent(p, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	if sampleOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(sampleOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	appLog.Info().Str("path", sampleOutput).Int("bonds", len(p.Bonds)).Msg("Sample portfolio written")
	return nil
}
