package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/iroha-tools/wasmpack/internal"
	"github.com/iroha-tools/wasmpack/internal/pipeline"
)

const minRustcVersion = "v1.30"

type BuildParams struct {
	// Dir is the directory the project lookup starts from. Empty means the
	// current working directory.
	Dir string

	// ExtraOptions are forwarded verbatim to cargo after the fixed flags.
	ExtraOptions []string
}

// Build runs the six build steps in order against a freshly derived context,
// stopping at the first failure.
func (client Client) Build(ctx context.Context, params BuildParams) error {
	buildCtx, err := EvalBuildContext(params.Dir, params.ExtraOptions)
	if err != nil {
		return err
	}

	steps := []pipeline.Step[BuildContext]{
		{Name: "check toolchain version", Run: client.checkToolchainVersion},
		{Name: "check crate type", Run: checkCrateType},
		{Name: "check wasm target", Run: client.checkWasmTarget},
		{Name: "compile", Run: func(ctx context.Context, _ BuildContext) error {
			return client.compile(ctx, params.ExtraOptions)
		}},
		{Name: "optimize", Run: client.optimize},
		{Name: "check module size", Run: checkModuleSize},
	}

	return pipeline.Run(ctx, steps, buildCtx)
}

func (client Client) checkToolchainVersion(ctx context.Context, _ BuildContext) error {
	output, err := client.Toolchain.RustcVersion(ctx)
	if err != nil {
		return ToolchainUnavailableError{Err: err}
	}

	version, ok := parseRustcVersion(output)
	if !ok {
		return ToolchainUnavailableError{Err: fmt.Errorf("unexpected version output: %q", output)}
	}

	if semver.Compare(semver.MajorMinor(version), minRustcVersion) < 0 {
		return ToolchainTooOldError{Version: strings.TrimPrefix(version, "v")}
	}
	return nil
}

// parseRustcVersion extracts a semver-comparable version from output of the
// form "rustc 1.75.0 (82e1608df 2023-12-21)".
func parseRustcVersion(output string) (string, bool) {
	fields := strings.Fields(output)
	if len(fields) < 2 || fields[0] != "rustc" {
		return "", false
	}
	version := "v" + fields[1]
	if !semver.IsValid(version) {
		return "", false
	}
	return version, true
}

func checkCrateType(_ context.Context, buildCtx BuildContext) error {
	if buildCtx.CrateType != RequiredCrateType {
		return InvalidLibraryKindError{Kind: buildCtx.CrateType}
	}
	return nil
}

func (client Client) checkWasmTarget(ctx context.Context, _ BuildContext) error {
	sysroot, err := client.Toolchain.RustcSysroot(ctx)
	if err != nil {
		return ToolchainUnavailableError{Err: err}
	}

	rustlib := filepath.Join(sysroot, "lib", "rustlib", Target)
	if _, err := os.Stat(rustlib); err == nil {
		internal.Debug(ctx).Printf("found %s in %s\n", Target, rustlib)
		return nil
	}

	if !strings.Contains(sysroot, "rustup") {
		// Not a rustup-managed toolchain: no installer to call, so assume the
		// user knows their setup and let cargo surface any real problem.
		internal.Debug(ctx).Printf("%s not found under %s: skipping install for non-rustup toolchain\n", Target, sysroot)
		return nil
	}

	if err := client.Toolchain.AddTarget(ctx, Target); err != nil {
		return TargetInstallError{Err: err}
	}
	return nil
}

func (client Client) compile(ctx context.Context, extraOptions []string) error {
	args := append([]string{
		"+nightly",
		"build",
		"-Z", "build-std",
		"-Z", "build-std-features=panic_immediate_abort",
		"--target", Target,
	}, extraOptions...)

	if err := client.Toolchain.Build(ctx, args); err != nil {
		return CompilationError{Err: err}
	}
	return nil
}

func (client Client) optimize(ctx context.Context, buildCtx BuildContext) error {
	if err := client.Optimizer.Optimize(ctx, buildCtx.WasmIn, buildCtx.WasmOut); err != nil {
		return OptimizationError{Err: err}
	}
	return nil
}

func checkModuleSize(_ context.Context, buildCtx BuildContext) error {
	info, err := os.Stat(buildCtx.WasmOut)
	if err != nil {
		return fmt.Errorf("failed to stat optimized module: %w", err)
	}
	if info.Size() > MaxModuleSize {
		return ArtifactTooLargeError{Limit: MaxModuleSize, Size: info.Size()}
	}
	return nil
}
