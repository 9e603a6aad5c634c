package pipeline

import (
	"context"

	"github.com/iroha-tools/wasmpack/internal"
)

// Step is a named unit of work. Steps hold no state of their own; everything
// they need travels in the state value threaded through Run.
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context, state T) error
}

// Run executes steps strictly in order against state and returns the first
// failure, discarding the remaining steps. It performs no side effects itself
// and knows nothing about what a step does.
func Run[T any](ctx context.Context, steps []Step[T], state T) error {
	for _, step := range steps {
		done := internal.DebugTimer(ctx, step.Name)
		err := step.Run(ctx, state)
		done()
		if err != nil {
			return err
		}
	}
	return nil
}
