package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const Filename = "Cargo.toml"

// View is the slice of the manifest the build cares about. It is re-read from
// disk on every invocation and discarded once the build context is derived.
type View struct {
	Name       string
	CrateTypes []string
}

type ProjectNotFoundError struct {
	Start string
}

func (err ProjectNotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s or any parent directory: initialize a project with `wasmpack new` first", Filename, err.Start)
}

type ParseError struct {
	Path string
	Err  error
}

func (err ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", err.Path, err.Err)
}

func (err ParseError) Unwrap() error { return err.Err }

// Locate walks upward from start until it finds a directory containing the
// manifest file and returns that directory.
func Locate(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ProjectNotFoundError{Start: start}
		}
		dir = parent
	}
}

type rawManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		// Downstream tooling emits either spelling.
		CrateType       []string `toml:"crate-type"`
		CrateTypeLegacy []string `toml:"crate_type"`
	} `toml:"lib"`
}

// Read parses <root>/Cargo.toml into a View. The crate-type field accepts both
// the canonical hyphenated spelling and the underscore alias.
func Read(root string) (View, error) {
	path := filepath.Join(root, Filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return View{}, ParseError{Path: path, Err: err}
	}

	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return View{}, ParseError{Path: path, Err: err}
	}

	kinds := raw.Lib.CrateType
	if len(kinds) == 0 {
		kinds = raw.Lib.CrateTypeLegacy
	}

	return View{Name: raw.Package.Name, CrateTypes: kinds}, nil
}
