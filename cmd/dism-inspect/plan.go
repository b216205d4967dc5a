package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-dismshim/shim"
)

// NewPlanCmd creates the plan command.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [flags] -- <dism arguments>",
		Short: "Show the classification and child command line for a DISM invocation",
		Long: `Classifies the given DISM arguments the way the shim does and prints the
command line it would hand to the real DISM. Nothing is launched.

Arguments starting with '-' must follow '--'.`,
		Example: `  dism-inspect plan /online /enable-feature /featurename:IIS-LegacySnapIn
  dism-inspect plan --json -- -online -get-features -english`,
		RunE: runPlan,
	}
	cmd.Flags().String("argv0", "dism.exe", "Program name placed at index 0 of the invocation")
	cmd.Flags().String("target", shim.DefaultTarget, "Executable the command line is built for")
	return cmd
}

type planOutput struct {
	Invocation    []string `json:"invocation"`
	LegacyCount   int      `json:"legacy_count"`
	Replace       bool     `json:"replace"`
	Introspection bool     `json:"introspection"`
	Target        string   `json:"target"`
	Args          []string `json:"args"`
	CommandLine   string   `json:"command_line"`
	Length        int      `json:"length"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	argv0, _ := cmd.Flags().GetString("argv0")
	target, _ := cmd.Flags().GetString("target")

	opts := shimOptions(cmd)
	opts.Target = target
	s := shim.New(opts)

	invocation := append([]string{argv0}, args...)
	plan, err := s.Plan(invocation)
	if err != nil {
		return fmt.Errorf("building command line: %w", err)
	}

	out := planOutput{
		Invocation:    invocation,
		LegacyCount:   plan.LegacyCount,
		Replace:       plan.Replace(),
		Introspection: plan.Introspection,
		Target:        plan.Command.Target,
		Args:          plan.Command.Args,
		CommandLine:   plan.Command.Line,
		Length:        plan.Command.Len(),
	}
	if out.Args == nil {
		out.Args = []string{}
	}

	if jsonOutput(cmd) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Legacy occurrences:\t%d\n", out.LegacyCount)
	fmt.Fprintf(w, "Replace:\t%t\n", out.Replace)
	fmt.Fprintf(w, "Intercept output:\t%t\n", out.Introspection)
	fmt.Fprintf(w, "Target:\t%s\n", out.Target)
	fmt.Fprintf(w, "Command line:\t%s\n", out.CommandLine)
	fmt.Fprintf(w, "Length:\t%d/%d\n", out.Length, shim.MaxCommandLine-1)
	for i, a := range out.Args {
		fmt.Fprintf(w, "  [%d]\t%s\n", i, a)
	}
	return w.Flush()
}
