package main

import (
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-dismshim/shim"
)

// NewRewriteCmd creates the rewrite command.
func NewRewriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite",
		Short: "Apply the feature-listing rewrite to DISM output read from stdin",
		Long: `Reads DISM output from stdin and writes it to stdout with the modern
management feature name mapped back to IIS-LegacySnapIn, exactly as the shim
does for an intercepted /get-features /english run.`,
		Example: `  dism-origin.exe /online /get-features /english | dism-inspect rewrite`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := shimOptions(cmd)
			return shim.Filter(cmd.OutOrStdout(), cmd.InOrStdin(), opts.Rewrite.Stream(), opts.Logger)
		},
	}
}
