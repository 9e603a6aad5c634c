package main

import (
	"context"

	"github.com/iroha-tools/wasmpack/pkg/pack"
)

type BuildParams struct {
	GlobalSettings
	pack.BuildParams
}

// GetBuildParams deliberately does no flag parsing: every token is forwarded
// verbatim to cargo so users can pass arbitrary compiler options, including
// ones like --release that the pipeline also inspects.
func GetBuildParams(settings GlobalSettings, args []string) (*BuildParams, error) {
	return &BuildParams{
		GlobalSettings: settings,
		BuildParams:    pack.BuildParams{ExtraOptions: args},
	}, nil
}

func Build(ctx context.Context, params BuildParams) error {
	client := pack.NewClient(pack.ClientParams{
		Rustc:   params.Rustc,
		Cargo:   params.Cargo,
		Rustup:  params.Rustup,
		WasmOpt: params.WasmOpt,
	})
	return client.Build(ctx, params.BuildParams)
}
