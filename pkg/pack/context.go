package pack

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/iroha-tools/wasmpack/internal/manifest"
)

const (
	// Target is the sandboxed compilation target imposed by the wasm host.
	Target = "wasm32-unknown-unknown"

	// RequiredCrateType is the linkage mode the host can load.
	RequiredCrateType = "cdylib"

	// MaxModuleSize is the hard ceiling the sandbox places on a deployed
	// module, in bytes.
	MaxModuleSize = 4194304

	releaseFlag = "--release"
)

// BuildContext carries everything the build steps share. It is derived once
// per invocation and read-only from then on.
type BuildContext struct {
	CrateType string
	WasmIn    string
	WasmOut   string
}

// EvalBuildContext locates the project containing dir, reads its manifest, and
// derives the build context. Release mode is selected by the presence of the
// literal --release token among the extra options; the token itself is still
// forwarded to cargo untouched.
func EvalBuildContext(dir string, extraOptions []string) (BuildContext, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return BuildContext{}, err
		}
		dir = wd
	}

	root, err := manifest.Locate(dir)
	if err != nil {
		return BuildContext{}, err
	}

	view, err := manifest.Read(root)
	if err != nil {
		return BuildContext{}, err
	}
	if len(view.CrateTypes) == 0 {
		return BuildContext{}, MissingLibraryKindError{Root: root}
	}

	profile := "debug"
	if slices.Contains(extraOptions, releaseFlag) {
		profile = "release"
	}

	buildDir := filepath.Join(root, "target", Target, profile)

	return BuildContext{
		CrateType: view.CrateTypes[0],
		WasmIn:    filepath.Join(buildDir, view.Name+".wasm"),
		WasmOut:   filepath.Join(buildDir, view.Name+"_optimized.wasm"),
	}, nil
}
