// Command dism is installed in place of dism.exe. It forwards every
// invocation to dism-origin.exe, substituting the legacy IIS snap-in feature
// with its modern replacements, and exits with the real DISM's exit code.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dzonerzy/go-dismshim/shim"
)

func main() {
	app := newApp(shim.New(shim.DefaultOptions()), os.Args[0])
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		// failures were already reported on stderr by the shim
		os.Exit(shim.DefaultExitCodes().GeneralError)
	}
}

// newApp builds a CLI that hands the raw argument vector to s: flag parsing,
// help and version handling are all disabled because every token belongs to
// DISM.
func newApp(s *shim.Shim, argv0 string) *cli.App {
	return &cli.App{
		Name:            "dism",
		Usage:           "DISM wrapper for IIS-LegacySnapIn compatibility",
		HideHelp:        true,
		HideHelpCommand: true,
		HideVersion:     true,
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			invocation := append([]string{argv0}, c.Args().Slice()...)
			code := s.Exec(c.Context, invocation)
			if code == 0 {
				return nil
			}
			return cli.Exit("", code)
		},
	}
}
