package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <domain>...",
	Short: "Check DNS/HTTP/HTTPS liveness for domains",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}

		validator := newValidator(cfg)
		verdicts := validator.ValidateAll(cmd.Context(), args)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
