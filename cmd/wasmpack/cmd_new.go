package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"strings"

	"github.com/iroha-tools/wasmpack/internal"
	"github.com/iroha-tools/wasmpack/pkg/pack"
)

type NewParams struct {
	GlobalSettings
	pack.NewParams
}

//go:embed cmd_new_help.txt
var newHelp string

func init() {
	newHelp = strings.TrimSpace(internal.Colorize(newHelp))
}

func GetNewParams(settings GlobalSettings, args []string) (*NewParams, error) {
	flagset := flag.NewFlagSet("new", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), newHelp)
		flagset.PrintDefaults()
	}

	params := NewParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)

	flagset.Parse(args)

	params.Name = flagset.Arg(0)
	if params.Name == "" {
		return nil, fmt.Errorf("project name is required as first positional arg")
	}

	return &params, nil
}

func New(ctx context.Context, params NewParams) error {
	client := pack.NewClient(pack.ClientParams{
		Rustc:   params.Rustc,
		Cargo:   params.Cargo,
		Rustup:  params.Rustup,
		WasmOpt: params.WasmOpt,
	})
	return client.New(ctx, params.NewParams)
}
