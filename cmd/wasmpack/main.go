package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/davidmdm/x/xcontext"

	"github.com/iroha-tools/wasmpack/internal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if internal.IsWarning(err) {
			return
		}
		os.Exit(1)
	}
}

//go:embed cmd_help.txt
var rootHelp string

func init() {
	rootHelp = strings.TrimSpace(internal.Colorize(rootHelp))
}

func run() error {
	ctx, done := xcontext.WithSignalCancelation(context.Background(), syscall.SIGINT)
	defer done()

	settings, err := GetGlobalSettings()
	if err != nil {
		return fmt.Errorf("failed to read environment settings: %w", err)
	}

	RegisterGlobalFlags(flag.CommandLine, &settings)

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), rootHelp)
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}

	flag.Parse()

	ctx = internal.WithDebugFlag(ctx, &settings.Debug)

	if len(flag.Args()) == 0 {
		flag.Usage()
		return fmt.Errorf("no command provided")
	}

	subcmdArgs := flag.Args()[1:]

	switch cmd := flag.Arg(0); cmd {
	case "build":
		{
			params, err := GetBuildParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Build(ctx, *params)
		}
	case "new", "init":
		{
			params, err := GetNewParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return New(ctx, *params)
		}
	case "inspect":
		{
			var source io.Reader
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				source = os.Stdin
			}
			params, err := GetInspectParams(settings, source, subcmdArgs)
			if err != nil {
				return err
			}
			return Inspect(ctx, *params)
		}
	case "version":
		{
			return Version()
		}
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
