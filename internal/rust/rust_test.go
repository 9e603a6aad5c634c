package rust

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iroha-tools/wasmpack/internal"
)

func TestQueryCapturesStdout(t *testing.T) {
	tc := Toolchain{Rustc: "echo"}

	out, err := tc.RustcVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "--version", out)
}

func TestQueryMissingBinary(t *testing.T) {
	tc := Toolchain{Rustc: "wasmpack-test-no-such-binary"}

	_, err := tc.RustcVersion(context.Background())
	require.Error(t, err)
}

func TestRunStreamsToContextStdout(t *testing.T) {
	var stdout bytes.Buffer
	ctx := internal.WithStdout(context.Background(), &stdout)
	ctx = internal.WithStderr(ctx, new(bytes.Buffer))
	ctx = internal.WithStdin(ctx, new(bytes.Buffer))

	tc := Toolchain{Cargo: "echo"}

	require.NoError(t, tc.Build(ctx, []string{"build", "--release"}))
	require.Equal(t, "build --release\n", stdout.String())
}

func TestDefaultBinaryNames(t *testing.T) {
	var tc Toolchain
	require.Equal(t, "rustc", tc.rustc())
	require.Equal(t, "cargo", tc.cargo())
	require.Equal(t, "rustup", tc.rustup())

	tc = Toolchain{Rustc: "rustc-1.75", Cargo: "cargo-1.75", Rustup: "rustup-init"}
	require.Equal(t, "rustc-1.75", tc.rustc())
	require.Equal(t, "cargo-1.75", tc.cargo())
	require.Equal(t, "rustup-init", tc.rustup())
}
