package pack

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iroha-tools/wasmpack/internal/manifest"
	"github.com/iroha-tools/wasmpack/internal/pipeline"
)

type NewParams struct {
	// Name of the new crate, also used as its directory name.
	Name string

	// Dir is the directory the project is created under. Empty means the
	// current working directory.
	Dir string
}

// New scaffolds a fresh crate wired for the sandboxed wasm target. Steps run
// in order and a failure leaves any partially initialized directory on disk.
func (client Client) New(ctx context.Context, params NewParams) error {
	steps := []pipeline.Step[NewParams]{
		{Name: "init project", Run: client.initProject},
		{Name: "write manifest", Run: writeManifest},
		{Name: "write entrypoint", Run: writeEntrypoint},
	}
	return pipeline.Run(ctx, steps, params)
}

func (client Client) initProject(ctx context.Context, params NewParams) error {
	if err := client.Toolchain.NewLibrary(ctx, filepath.Join(params.Dir, params.Name)); err != nil {
		return ProjectInitError{Err: err}
	}
	return nil
}

const manifestTemplate = `[package]
name = "%s"
version = "0.1.0"
edition = "2021"

[lib]
# The host loads the module dynamically and calls the function it exports as
# its entrypoint, so the crate must link as a cdylib.
crate-type = ['cdylib']

[profile.release]
strip = "debuginfo" # Remove debugging info from the binary
panic = "abort"     # Panics are transcribed to Traps when compiling for WASM
lto = true          # Link-time-optimization produces notable decrease in binary size
opt-level = "z"     # Optimize for size vs speed with "s"/"z" (removes vectorization)
codegen-units = 1   # Further reduces binary size but increases compilation time

[dependencies]
iroha_data_model = { git = "https://github.com/hyperledger/iroha/", branch = "iroha2-dev", default-features = false }
iroha_wasm = { git = "https://github.com/hyperledger/iroha/", branch = "iroha2-dev" }

[dev-dependencies]
webassembly-test-runner = { version = "0.1.0" }
`

func writeManifest(_ context.Context, params NewParams) error {
	path := filepath.Join(params.Dir, params.Name, manifest.Filename)
	return write(path, fmt.Appendf(nil, manifestTemplate, params.Name))
}

//go:embed templates/lib.rs
var entrypointTemplate []byte

func writeEntrypoint(_ context.Context, params NewParams) error {
	path := filepath.Join(params.Dir, params.Name, "src", "lib.rs")
	return write(path, entrypointTemplate)
}

func write(path string, contents []byte) error {
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return FileWriteError{Path: path, Err: err}
	}
	return nil
}
