package relocate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/eve-preview-manager/packager/internal/logger"
)

// ErrToolUnavailable is returned when the metadata patch tool is not installed.
// A non-relocated binary is not a valid release artifact, so callers must
// treat this as fatal.
var ErrToolUnavailable = errors.New("binary patch tool unavailable")

// distPermissions are the conventional executable permissions restored after patching.
const distPermissions = 0o755

// Relocator rewrites the dynamic-linking metadata of a staged executable so
// it no longer depends on build-environment paths.
type Relocator struct {
	// tool is the name or path of the patch utility (patchelf).
	tool string
	// loaders are interpreter candidates tried in order.
	loaders []string
	// timeout bounds a single tool invocation.
	timeout time.Duration
}

// New returns a Relocator using the given patch tool and interpreter candidates.
func New(tool string, loaders []string, timeout time.Duration) *Relocator {
	return &Relocator{
		tool:    tool,
		loaders: loaders,
		timeout: timeout,
	}
}

// Relocate patches the executable in place.
//
// The embedded run-time library search path is cleared unconditionally; it
// points into the build environment's package store, which does not exist on
// target hosts. The interpreter path is then rewritten to the first loader
// candidate that takes. Exhausting all candidates is not an error: the
// executable may already carry a loader path valid on the target, and
// refusing to package it would block otherwise-working artifacts.
func (r *Relocator) Relocate(ctx context.Context, binary string) error {
	if _, err := exec.LookPath(r.tool); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrToolUnavailable, r.tool)
	}

	logger.InfoKV(ctx, "Clearing embedded library search path", "binary", binary)

	if err := r.run(ctx, "--set-rpath", "", binary); err != nil {
		return fmt.Errorf("clear rpath of %s: %w", binary, err)
	}

	r.rewriteInterpreter(ctx, binary)

	if err := os.Chmod(binary, distPermissions); err != nil {
		return fmt.Errorf("chmod %s: %w", binary, err)
	}

	return nil
}

// rewriteInterpreter walks the loader candidates until one sticks.
// Individual failures are discarded; they indicate host variability,
// not a structural problem (a broken executable already failed the
// rpath step above).
func (r *Relocator) rewriteInterpreter(ctx context.Context, binary string) {
	for _, loader := range r.loaders {
		if err := r.run(ctx, "--set-interpreter", loader, binary); err != nil {
			logger.DebugKV(ctx, "Interpreter rewrite attempt failed",
				"loader", loader, "error", err.Error())

			continue
		}

		logger.InfoKV(ctx, "Rewrote interpreter path", "loader", loader)

		return
	}

	logger.WarnKV(ctx, "No interpreter candidate applied, keeping embedded default",
		"candidates", strings.Join(r.loaders, ", "))
}

// run invokes the patch tool once with a bounded execution time.
func (r *Relocator) run(ctx context.Context, args ...string) error {
	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.tool, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s",
			r.tool, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return nil
}
