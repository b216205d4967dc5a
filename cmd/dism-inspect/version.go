package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-dismshim/shim"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shim version and its compiled-in substitution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := struct {
				Version      string   `json:"version"`
				Target       string   `json:"target"`
				Legacy       string   `json:"legacy_feature"`
				Replacements []string `json:"replacements"`
			}{shim.Version, shim.DefaultTarget, shim.LegacyFeature, shim.ReplacementFeatures()}

			if jsonOutput(cmd) {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DISM Wrapper %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Target: %s\n", info.Target)
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %v\n", info.Legacy, info.Replacements)
			return nil
		},
	}
}
