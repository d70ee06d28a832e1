package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/namekart/lead-gen-deep-research/internal/discovery"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <keyword>...",
	Short: "Fetch and filter candidate domains for seed keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("candidates"); err != nil {
			return err
		}

		norm := newNormalizer()
		fetcher := newFetcher(cfg, norm)

		keywords := discovery.ExpandKeywords(args)
		byKeyword := fetcher.FetchCandidates(cmd.Context(), keywords)
		filtered := fetcher.FilterExact(byKeyword, keywords)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"keywords":   keywords,
			"candidates": filtered,
		})
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
}
