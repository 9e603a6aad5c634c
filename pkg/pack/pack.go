// Package pack orchestrates building a Rust crate into a size-constrained
// wasm module for the sandboxed host, and scaffolding new crates wired for
// that target. Compilation, target installation and size optimization are
// delegated to external tools; this package only sequences them.
package pack

import (
	"context"

	"github.com/iroha-tools/wasmpack/internal/rust"
	"github.com/iroha-tools/wasmpack/internal/wasmopt"
)

// Toolchain is the surface of the Rust toolchain the build pipeline consumes.
type Toolchain interface {
	RustcVersion(ctx context.Context) (string, error)
	RustcSysroot(ctx context.Context) (string, error)
	AddTarget(ctx context.Context, target string) error
	Build(ctx context.Context, args []string) error
	NewLibrary(ctx context.Context, name string) error
}

// Optimizer rewrites a wasm module for size, reading from in and writing to
// out without modifying in.
type Optimizer interface {
	Optimize(ctx context.Context, in, out string) error
}

type Client struct {
	Toolchain Toolchain
	Optimizer Optimizer
}

// ClientParams name the external tool binaries. Zero values resolve to the
// conventional names on PATH.
type ClientParams struct {
	Rustc   string
	Cargo   string
	Rustup  string
	WasmOpt string
}

func NewClient(params ClientParams) *Client {
	return &Client{
		Toolchain: rust.Toolchain{Rustc: params.Rustc, Cargo: params.Cargo, Rustup: params.Rustup},
		Optimizer: wasmopt.Optimizer{Bin: params.WasmOpt},
	}
}
