package main

import (
	"github.com/spf13/cobra"

	shimio "github.com/dzonerzy/go-dismshim/io"
	"github.com/dzonerzy/go-dismshim/shim"
)

// NewRootCmd creates the dism-inspect command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dism-inspect",
		Short:         "Inspect how the DISM shim rewrites invocations and output",
		Version:       shim.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Output in JSON format")
	root.PersistentFlags().Bool("debug", false, "Log launcher and relay detail")

	root.AddCommand(NewPlanCmd())
	root.AddCommand(NewRewriteCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// shimOptions returns the compiled-in options bound to cmd's streams.
func shimOptions(cmd *cobra.Command) shim.Options {
	m := shimio.New().
		WithIn(cmd.InOrStdin()).
		WithOut(cmd.OutOrStdout()).
		WithErr(cmd.ErrOrStderr())
	log := shimio.NewLogger(m)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.WithLevel(shimio.LevelDebug)
	}
	opts := shim.DefaultOptions()
	opts.IO = m
	opts.Logger = log
	return opts
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
