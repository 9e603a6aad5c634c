// Package rust wraps the external Rust toolchain front ends: rustc for
// queries, cargo for builds and project scaffolding, rustup for target
// installation. Every call blocks until the child process exits.
package rust

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/iroha-tools/wasmpack/internal"
)

// Toolchain holds the binary names of the toolchain front ends. Zero values
// fall back to the conventional names found on PATH.
type Toolchain struct {
	Rustc  string
	Cargo  string
	Rustup string
}

func (tc Toolchain) rustc() string  { return nonEmpty(tc.Rustc, "rustc") }
func (tc Toolchain) cargo() string  { return nonEmpty(tc.Cargo, "cargo") }
func (tc Toolchain) rustup() string { return nonEmpty(tc.Rustup, "rustup") }

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// RustcVersion returns the trimmed output of `rustc --version`,
// eg. "rustc 1.75.0 (82e1608df 2023-12-21)".
func (tc Toolchain) RustcVersion(ctx context.Context) (string, error) {
	out, err := tc.query(ctx, tc.rustc(), "--version")
	if err != nil {
		return "", err
	}
	internal.Debug(ctx).Printf("rustc version: %s\n", out)
	return out, nil
}

// RustcSysroot returns rustc's installation root.
func (tc Toolchain) RustcSysroot(ctx context.Context) (string, error) {
	out, err := tc.query(ctx, tc.rustc(), "--print", "sysroot")
	if err != nil {
		return "", err
	}
	internal.Debug(ctx).Printf("rustc sysroot: %s\n", out)
	return out, nil
}

// AddTarget installs standard-library support for target via rustup.
func (tc Toolchain) AddTarget(ctx context.Context, target string) error {
	return tc.run(ctx, tc.rustup(), "target", "add", target)
}

// Build invokes `cargo <args...>` with the child's output streamed through to
// the invoker's stdio.
func (tc Toolchain) Build(ctx context.Context, args []string) error {
	return tc.run(ctx, tc.cargo(), args...)
}

// NewLibrary invokes `cargo new <name> --lib` in the current directory.
func (tc Toolchain) NewLibrary(ctx context.Context, name string) error {
	return tc.run(ctx, tc.cargo(), "new", name, "--lib")
}

func (tc Toolchain) query(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (tc Toolchain) run(ctx context.Context, name string, args ...string) error {
	internal.Debug(ctx).Printf("exec: %s %s\n", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = internal.Stdout(ctx)
	cmd.Stderr = internal.Stderr(ctx)
	cmd.Stdin = internal.Stdin(ctx)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}
