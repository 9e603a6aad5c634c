package main

import (
	"flag"

	"github.com/davidmdm/conf"
)

// GlobalSettings name the external tool binaries the pipelines shell out to.
// Overridable via environment so CI images with pinned or renamed toolchains
// work without PATH games.
type GlobalSettings struct {
	Rustc   string
	Cargo   string
	Rustup  string
	WasmOpt string
	Debug   bool
}

func GetGlobalSettings() (settings GlobalSettings, err error) {
	conf.Var(conf.Environ, &settings.Rustc, "WASMPACK_RUSTC")
	conf.Var(conf.Environ, &settings.Cargo, "WASMPACK_CARGO")
	conf.Var(conf.Environ, &settings.Rustup, "WASMPACK_RUSTUP")
	conf.Var(conf.Environ, &settings.WasmOpt, "WASMPACK_WASM_OPT")
	err = conf.Environ.Parse()
	return
}

func RegisterGlobalFlags(flagset *flag.FlagSet, settings *GlobalSettings) {
	flagset.BoolVar(&settings.Debug, "debug", settings.Debug, "print debug output for each pipeline step")
}
