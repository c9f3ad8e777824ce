package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/eve-preview-manager/packager/internal/logger"
)

// errAlreadyRunning indicates another packager instance owns the staging directory.
var errAlreadyRunning = errors.New("another packager instance is already running")

// ensureSingleInvoker refuses to start while another packager process is
// alive. The staging directory is destroyed and recreated without locking,
// which is only safe with a single invoker.
func ensureSingleInvoker(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		// Without a resolvable executable name, the check cannot work;
		// continue rather than block a release on an exotic platform.
		logger.Debugf(ctx, "Skipping single-invoker check: %v", err)

		return nil
	}

	name := filepath.Base(self)

	processes, err := ps.Processes()
	if err != nil {
		logger.Debugf(ctx, "Skipping single-invoker check: %v", err)

		return nil
	}

	for _, process := range processes {
		if process.Pid() == os.Getpid() {
			continue
		}

		if process.Executable() != name {
			continue
		}

		return fmt.Errorf("%w (pid %d)", errAlreadyRunning, process.Pid())
	}

	return nil
}
