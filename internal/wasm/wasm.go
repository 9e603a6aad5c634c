package wasm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/davidmdm/x/xerr"
)

type Export struct {
	Name    string
	Params  []string
	Results []string
}

// Module is a static description of a compiled wasm artifact.
type Module struct {
	Exports  []Export
	Memories []string
}

// Describe compiles the wasm binary without instantiating it and reports its
// exported surface.
func Describe(ctx context.Context, wasm []byte) (_ *Module, err error) {
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	defer func() {
		err = xerr.MultiErrFrom("", err, runtime.Close(ctx))
	}()

	compiled, err := runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	var module Module

	for name, fn := range compiled.ExportedFunctions() {
		module.Exports = append(module.Exports, Export{
			Name:    name,
			Params:  typeNames(fn.ParamTypes()),
			Results: typeNames(fn.ResultTypes()),
		})
	}
	slices.SortFunc(module.Exports, func(a, b Export) int {
		return strings.Compare(a.Name, b.Name)
	})

	for name := range compiled.ExportedMemories() {
		module.Memories = append(module.Memories, name)
	}
	slices.Sort(module.Memories)

	return &module, nil
}

func typeNames(types []api.ValueType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return names
}
