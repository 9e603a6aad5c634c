package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/iroha-tools/wasmpack/internal"
	"github.com/iroha-tools/wasmpack/internal/wasm"
	"github.com/iroha-tools/wasmpack/pkg/pack"
)

type InspectParams struct {
	GlobalSettings
	Path    string
	Input   io.Reader
	Release bool
	Out     string
}

//go:embed cmd_inspect_help.txt
var inspectHelp string

func init() {
	inspectHelp = strings.TrimSpace(internal.Colorize(inspectHelp))
}

func GetInspectParams(settings GlobalSettings, source io.Reader, args []string) (*InspectParams, error) {
	flagset := flag.NewFlagSet("inspect", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), inspectHelp)
		flagset.PrintDefaults()
	}

	params := InspectParams{GlobalSettings: settings, Input: source}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	flagset.BoolVar(&params.Release, "release", false, "inspect the release profile artifact when no path is given")
	flagset.StringVar(&params.Out, "o", "", "write the report as yaml to the given file instead of rendering a table")

	flagset.Parse(args)

	params.Path = flagset.Arg(0)

	return &params, nil
}

type InspectReport struct {
	Path     string        `yaml:"path,omitempty"`
	Size     int64         `yaml:"size"`
	Limit    int64         `yaml:"limit"`
	Exports  []wasm.Export `yaml:"exports"`
	Memories []string      `yaml:"memories,omitempty"`
}

func Inspect(ctx context.Context, params InspectParams) error {
	data, path, err := loadModule(params)
	if err != nil {
		return err
	}

	module, err := wasm.Describe(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to describe module: %w", err)
	}

	report := InspectReport{
		Path:     path,
		Size:     int64(len(data)),
		Limit:    pack.MaxModuleSize,
		Exports:  module.Exports,
		Memories: module.Memories,
	}

	if params.Out != "" {
		return internal.WriteYAML(params.Out, report)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)

	if report.Path != "" {
		tbl.AppendRow(table.Row{"module", report.Path})
	}
	tbl.AppendRow(table.Row{"size", fmt.Sprintf("%d / %d bytes", report.Size, report.Limit)})
	for _, export := range report.Exports {
		signature := fmt.Sprintf("(%s) -> (%s)", strings.Join(export.Params, ", "), strings.Join(export.Results, ", "))
		tbl.AppendRow(table.Row{"export", export.Name + " " + signature})
	}
	for _, memory := range report.Memories {
		tbl.AppendRow(table.Row{"memory", memory})
	}

	if _, err := io.WriteString(internal.Stdout(ctx), tbl.Render()+"\n"); err != nil {
		return err
	}

	if report.Size > report.Limit {
		return internal.Warning(fmt.Sprintf("module is %d bytes, exceeding the %d byte sandbox ceiling", report.Size, report.Limit))
	}
	return nil
}

// loadModule resolves the wasm bytes to inspect: an explicit path wins, then
// piped stdin, then the artifact location derived from the current project.
func loadModule(params InspectParams) ([]byte, string, error) {
	if params.Path != "" {
		data, err := os.ReadFile(params.Path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read module: %w", err)
		}
		return data, params.Path, nil
	}

	if params.Input != nil {
		data, err := io.ReadAll(params.Input)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read module from stdin: %w", err)
		}
		return data, "", nil
	}

	var extraOptions []string
	if params.Release {
		extraOptions = append(extraOptions, "--release")
	}

	buildCtx, err := pack.EvalBuildContext("", extraOptions)
	if err != nil {
		return nil, "", err
	}

	// Prefer the optimized artifact, fall back to the raw compiler output.
	for _, path := range []string{buildCtx.WasmOut, buildCtx.WasmIn} {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
	}

	return nil, "", fmt.Errorf("no built module found at %s: run `wasmpack build` first", buildCtx.WasmOut)
}
