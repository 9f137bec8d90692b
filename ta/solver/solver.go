// Package solver invokes the external real-time model checker and
// recovers a schedule from its symbolic trace output (spec.md §4.11,
// §6's "Model-checker interface"/"Trace file").
//
// Grounded on the original taptenc source's uppaal_calls.cpp, which locates
// the solver via an environment variable and shells out to it twice (a
// compile-only pass, then a trace-producing pass); this package keeps only
// the trace-producing invocation, since the compile-only pass exists in
// the original purely to produce an intermediate ".if" file the trace
// reader needs and this package's parser does not.
package solver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wbrown/tasched/ta"
)

// BinaryName is the external model-checker executable this package
// invokes, resolved relative to VERIFYTA_DIR.
const BinaryName = "verifyta"

// ResolveBinary locates the solver binary via the VERIFYTA_DIR
// environment variable, mirroring uppaal_calls.cpp's
// getEnvVar("VERIFYTA_DIR"). Returns ErrSolverUnavailable if the
// variable is unset or no executable exists at the resolved path.
func ResolveBinary() (string, error) {
	dir := os.Getenv("VERIFYTA_DIR")
	if dir == "" {
		return "", fmt.Errorf("%w: VERIFYTA_DIR not set", ta.ErrSolverUnavailable)
	}
	bin := filepath.Join(dir, BinaryName)
	if info, err := os.Stat(bin); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s not found", ta.ErrSolverUnavailable, bin)
	}
	return bin, nil
}

// Run invokes the solver against an automaton file and a query file,
// requesting a symbolic diagnostic trace (-t 2 -Y), and returns the raw
// trace text on success. A non-zero exit or a process-launch failure is
// reported as ErrSolverUnavailable, per spec.md §7 ("solver failure / no
// trace... surfaced to caller as 'no schedule'" is the decoder's
// responsibility one layer up; this function only reports that the
// solver process itself could not be run to completion).
func Run(ctx context.Context, bin, automatonPath, queryPath string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, "-t", "2", "-Y", automatonPath, queryPath)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ta.ErrSolverUnavailable, err)
	}
	return string(out), nil
}
