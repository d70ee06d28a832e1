package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/pipeline"
)

var runGuidance string

var runCmd = &cobra.Command{
	Use:   "run <subject-domain>",
	Short: "Run the full lead-generation pipeline for one subject domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("run"); err != nil {
			return err
		}

		p := newPipeline(cfg)
		result, err := p.Run(cmd.Context(), args[0], pipeline.RunOptions{
			Guidance: runGuidance,
		})
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("leads", len(result.Leads)))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runGuidance, "guidance", "", "classification guidance passed to lead extraction")
	rootCmd.AddCommand(runCmd)
}
