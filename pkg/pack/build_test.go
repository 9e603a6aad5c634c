package pack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeToolchain struct {
	version      string
	versionErr   error
	sysroot      string
	sysrootErr   error
	addTargetErr error
	buildErr     error
	newLibErr    error

	calls     []string
	buildArgs []string
}

func (tc *fakeToolchain) RustcVersion(context.Context) (string, error) {
	tc.calls = append(tc.calls, "version")
	return tc.version, tc.versionErr
}

func (tc *fakeToolchain) RustcSysroot(context.Context) (string, error) {
	tc.calls = append(tc.calls, "sysroot")
	return tc.sysroot, tc.sysrootErr
}

func (tc *fakeToolchain) AddTarget(_ context.Context, target string) error {
	tc.calls = append(tc.calls, "add-target "+target)
	return tc.addTargetErr
}

func (tc *fakeToolchain) Build(_ context.Context, args []string) error {
	tc.calls = append(tc.calls, "build")
	tc.buildArgs = args
	return tc.buildErr
}

func (tc *fakeToolchain) NewLibrary(_ context.Context, name string) error {
	tc.calls = append(tc.calls, "new "+name)
	if tc.newLibErr != nil {
		return tc.newLibErr
	}
	return os.MkdirAll(filepath.Join(name, "src"), 0o755)
}

type fakeOptimizer struct {
	err   error
	size  int64
	calls [][2]string
}

func (opt *fakeOptimizer) Optimize(_ context.Context, in, out string) error {
	opt.calls = append(opt.calls, [2]string{in, out})
	if opt.err != nil {
		return opt.err
	}
	return writeFileOfSize(out, opt.size)
}

func writeFileOfSize(path string, size int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := file.Truncate(size); err != nil {
		return err
	}
	return file.Close()
}

func TestCheckToolchainVersion(t *testing.T) {
	cases := []struct {
		Name    string
		Version string
		Err     error
		Check   func(t *testing.T, err error)
	}{
		{
			Name:    "minimum version passes",
			Version: "rustc 1.30.0 (da334dc33 2018-10-24)",
			Check:   func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			Name:    "modern version passes",
			Version: "rustc 1.75.0 (82e1608df 2023-12-21)",
			Check:   func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			Name:    "nightly passes",
			Version: "rustc 1.77.0-nightly (6ae4cfbbb 2024-01-17)",
			Check:   func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			Name:    "too old",
			Version: "rustc 1.25.0 (84203cac6 2018-03-25)",
			Check: func(t *testing.T, err error) {
				var tooOld ToolchainTooOldError
				require.ErrorAs(t, err, &tooOld)
				require.Equal(t, "1.25.0", tooOld.Version)
			},
		},
		{
			Name:    "unparsable output",
			Version: "clang version 17.0.6",
			Check: func(t *testing.T, err error) {
				var unavailable ToolchainUnavailableError
				require.ErrorAs(t, err, &unavailable)
			},
		},
		{
			Name: "query fails",
			Err:  errors.New("exec: rustc: not found"),
			Check: func(t *testing.T, err error) {
				var unavailable ToolchainUnavailableError
				require.ErrorAs(t, err, &unavailable)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			client := Client{Toolchain: &fakeToolchain{version: tc.Version, versionErr: tc.Err}}
			tc.Check(t, client.checkToolchainVersion(context.Background(), BuildContext{}))
		})
	}
}

func TestCheckCrateType(t *testing.T) {
	require.NoError(t, checkCrateType(context.Background(), BuildContext{CrateType: "cdylib"}))

	err := checkCrateType(context.Background(), BuildContext{CrateType: "rlib"})

	var invalid InvalidLibraryKindError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "rlib", invalid.Kind)
	require.Contains(t, err.Error(), "[lib]\ncrate-type = [\"cdylib\"]")
}

func TestCheckWasmTarget(t *testing.T) {
	t.Run("target present in sysroot", func(t *testing.T) {
		sysroot := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(sysroot, "lib", "rustlib", Target), 0o755))

		toolchain := &fakeToolchain{sysroot: sysroot}
		client := Client{Toolchain: toolchain}

		require.NoError(t, client.checkWasmTarget(context.Background(), BuildContext{}))
		require.Equal(t, []string{"sysroot"}, toolchain.calls)
	})

	t.Run("missing target under rustup is installed", func(t *testing.T) {
		sysroot := filepath.Join(t.TempDir(), "rustup", "toolchains", "stable")
		require.NoError(t, os.MkdirAll(sysroot, 0o755))

		toolchain := &fakeToolchain{sysroot: sysroot}
		client := Client{Toolchain: toolchain}

		require.NoError(t, client.checkWasmTarget(context.Background(), BuildContext{}))
		require.Equal(t, []string{"sysroot", "add-target " + Target}, toolchain.calls)
	})

	t.Run("install failure is reported", func(t *testing.T) {
		sysroot := filepath.Join(t.TempDir(), "rustup", "toolchains", "stable")
		require.NoError(t, os.MkdirAll(sysroot, 0o755))

		toolchain := &fakeToolchain{sysroot: sysroot, addTargetErr: errors.New("network down")}
		client := Client{Toolchain: toolchain}

		err := client.checkWasmTarget(context.Background(), BuildContext{})

		var installErr TargetInstallError
		require.ErrorAs(t, err, &installErr)
	})

	t.Run("missing target without rustup is tolerated", func(t *testing.T) {
		toolchain := &fakeToolchain{sysroot: t.TempDir()}
		client := Client{Toolchain: toolchain}

		require.NoError(t, client.checkWasmTarget(context.Background(), BuildContext{}))
		require.Equal(t, []string{"sysroot"}, toolchain.calls)
	})
}

func TestCompileArgs(t *testing.T) {
	toolchain := new(fakeToolchain)
	client := Client{Toolchain: toolchain}

	require.NoError(t, client.compile(context.Background(), []string{"--release", "--features", "mint"}))

	require.Equal(t, []string{
		"+nightly",
		"build",
		"-Z", "build-std",
		"-Z", "build-std-features=panic_immediate_abort",
		"--target", Target,
		"--release", "--features", "mint",
	}, toolchain.buildArgs)
}

func TestCheckModuleSize(t *testing.T) {
	cases := []struct {
		Size int64
		OK   bool
	}{
		{Size: 0, OK: true},
		{Size: MaxModuleSize, OK: true},
		{Size: MaxModuleSize + 1, OK: false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d bytes", tc.Size), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "demo_optimized.wasm")
			require.NoError(t, writeFileOfSize(out, tc.Size))

			err := checkModuleSize(context.Background(), BuildContext{WasmOut: out})
			if tc.OK {
				require.NoError(t, err)
				return
			}

			var tooLarge ArtifactTooLargeError
			require.ErrorAs(t, err, &tooLarge)
			require.Equal(t, int64(MaxModuleSize), tooLarge.Limit)
			require.Equal(t, tc.Size, tooLarge.Size)
		})
	}
}

func TestBuild(t *testing.T) {
	root := initProject(t, demoManifest)

	sysroot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sysroot, "lib", "rustlib", Target), 0o755))

	t.Run("happy path runs every step", func(t *testing.T) {
		toolchain := &fakeToolchain{version: "rustc 1.75.0 (82e1608df 2023-12-21)", sysroot: sysroot}
		optimizer := new(fakeOptimizer)
		client := Client{Toolchain: toolchain, Optimizer: optimizer}

		require.NoError(t, client.Build(context.Background(), BuildParams{Dir: root}))

		require.Equal(t, []string{"version", "sysroot", "build"}, toolchain.calls)

		buildDir := filepath.Join(root, "target", Target, "debug")
		require.Equal(t, [][2]string{{
			filepath.Join(buildDir, "demo.wasm"),
			filepath.Join(buildDir, "demo_optimized.wasm"),
		}}, optimizer.calls)
	})

	t.Run("old toolchain aborts before any other step", func(t *testing.T) {
		toolchain := &fakeToolchain{version: "rustc 1.25.0 (84203cac6 2018-03-25)", sysroot: sysroot}
		optimizer := new(fakeOptimizer)
		client := Client{Toolchain: toolchain, Optimizer: optimizer}

		err := client.Build(context.Background(), BuildParams{Dir: root})

		var tooOld ToolchainTooOldError
		require.ErrorAs(t, err, &tooOld)
		require.Equal(t, []string{"version"}, toolchain.calls)
		require.Empty(t, optimizer.calls)
	})

	t.Run("compilation failure stops before optimization", func(t *testing.T) {
		toolchain := &fakeToolchain{
			version:  "rustc 1.75.0 (82e1608df 2023-12-21)",
			sysroot:  sysroot,
			buildErr: errors.New("exit status 101"),
		}
		optimizer := new(fakeOptimizer)
		client := Client{Toolchain: toolchain, Optimizer: optimizer}

		err := client.Build(context.Background(), BuildParams{Dir: root})

		var compileErr CompilationError
		require.ErrorAs(t, err, &compileErr)
		require.Empty(t, optimizer.calls)
	})

	t.Run("oversized output fails the final step", func(t *testing.T) {
		toolchain := &fakeToolchain{version: "rustc 1.75.0 (82e1608df 2023-12-21)", sysroot: sysroot}
		optimizer := &fakeOptimizer{size: MaxModuleSize + 1}
		client := Client{Toolchain: toolchain, Optimizer: optimizer}

		err := client.Build(context.Background(), BuildParams{Dir: root})

		var tooLarge ArtifactTooLargeError
		require.ErrorAs(t, err, &tooLarge)
		require.Equal(t, int64(MaxModuleSize+1), tooLarge.Size)
	})
}
