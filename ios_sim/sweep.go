package ios_sim

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/shamanec/GADS-simulator/logger"
)

// Process name patterns of every simulator host app across Xcode generations
var simulatorProcessPatterns = []string{
	"iOS Simulator.app",
	"Simulator.app",
	"launchd_sim",
}

// Sweeper kills every simulator process on the host, not only the one of a single device
type Sweeper struct {
	Timeout time.Duration
	Run     ShellRunner
}

func NewSweeper(timeout time.Duration) *Sweeper {
	return &Sweeper{
		Timeout: timeout,
		Run:     shellCommand,
	}
}

func (s *Sweeper) KillAllSimulators(ctx context.Context) error {
	logger.ProviderLogger.LogInfo("ios_sim", "Killing all simulator processes on host")

	run := s.Run
	if run == nil {
		run = shellCommand
	}

	for _, pattern := range simulatorProcessPatterns {
		output, err := run(ctx, s.Timeout, "pkill", "-9", "-f", pattern)
		if err != nil && !noProcessMatched(err) {
			return fmt.Errorf("pkill `%s` failed: %w (output: %s)", pattern, err, string(output))
		}
	}
	return nil
}

// pkill exits with status 1 when nothing matched the pattern
func noProcessMatched(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 1
	}
	return false
}
