// Package wasmopt wraps the binaryen wasm-opt front end as the size
// optimizer. The input artifact is never modified; output is written to a
// distinct path.
package wasmopt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/iroha-tools/wasmpack/internal"
)

type Optimizer struct {
	Bin string
}

func (opt Optimizer) bin() string {
	if opt.Bin == "" {
		return "wasm-opt"
	}
	return opt.Bin
}

// Optimize rewrites the module at in to out with optimize-for-size settings.
func (opt Optimizer) Optimize(ctx context.Context, in, out string) error {
	args := []string{"-Oz", in, "-o", out}

	internal.Debug(ctx).Printf("exec: %s %s\n", opt.bin(), strings.Join(args, " "))

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, opt.bin(), args...)
	cmd.Stdout = internal.Stdout(ctx)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", opt.bin(), err, msg)
		}
		return fmt.Errorf("%s: %w", opt.bin(), err)
	}
	return nil
}
