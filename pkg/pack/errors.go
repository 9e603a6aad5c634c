package pack

import "fmt"

// All pipeline failures are terminal: nothing is retried and nothing already
// written to disk is rolled back.

type MissingLibraryKindError struct {
	Root string
}

func (err MissingLibraryKindError) Error() string {
	return fmt.Sprintf("manifest at %s declares no crate-type under [lib]", err.Root)
}

type ToolchainUnavailableError struct {
	Err error
}

func (err ToolchainUnavailableError) Error() string {
	return fmt.Sprintf("cannot determine your Rust version - you might not have Rust installed. Please install Rust 1.30.0 or higher: %v", err.Err)
}

func (err ToolchainUnavailableError) Unwrap() error { return err.Err }

type ToolchainTooOldError struct {
	Version string
}

func (err ToolchainTooOldError) Error() string {
	return fmt.Sprintf("your version of Rust, %s, is not supported. Please install Rust 1.30.0 or higher", err.Version)
}

type InvalidLibraryKindError struct {
	Kind string
}

func (err InvalidLibraryKindError) Error() string {
	return fmt.Sprintf(
		"crate-type must be %q to compile to %s but found %q. Add the following to your %s file:\n\n[lib]\ncrate-type = [\"cdylib\"]",
		RequiredCrateType, Target, err.Kind, "Cargo.toml",
	)
}

type TargetInstallError struct {
	Err error
}

func (err TargetInstallError) Error() string {
	return fmt.Sprintf("failed to add the %s target with rustup: %v", Target, err.Err)
}

func (err TargetInstallError) Unwrap() error { return err.Err }

type CompilationError struct {
	Err error
}

func (err CompilationError) Error() string {
	return fmt.Sprintf("failed to build wasm: %v", err.Err)
}

func (err CompilationError) Unwrap() error { return err.Err }

type OptimizationError struct {
	Err error
}

func (err OptimizationError) Error() string {
	return fmt.Sprintf("failed to optimize wasm: %v", err.Err)
}

func (err OptimizationError) Unwrap() error { return err.Err }

type ArtifactTooLargeError struct {
	Limit int64
	Size  int64
}

func (err ArtifactTooLargeError) Error() string {
	return fmt.Sprintf("wasm binary too large: max size is %d bytes but got %d", err.Limit, err.Size)
}

type ProjectInitError struct {
	Err error
}

func (err ProjectInitError) Error() string {
	return fmt.Sprintf("failed to init project: %v", err.Err)
}

func (err ProjectInitError) Unwrap() error { return err.Err }

type FileWriteError struct {
	Path string
	Err  error
}

func (err FileWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", err.Path, err.Err)
}

func (err FileWriteError) Unwrap() error { return err.Err }
