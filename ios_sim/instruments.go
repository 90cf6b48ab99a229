package ios_sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	sh "github.com/codeskyblue/go-sh"
	"github.com/shamanec/GADS-simulator/logger"
)

const DefaultLaunchTemplate = "Blank"

// Instruments boots a simulator by running a minimal `instruments` trace against it
type Instruments struct {
	Template string
	Timeout  time.Duration
	Run      ShellRunner
}

func NewInstruments(template string, timeout time.Duration) *Instruments {
	if template == "" {
		template = DefaultLaunchTemplate
	}
	return &Instruments{
		Template: template,
		Timeout:  timeout,
		Run:      shellCommand,
	}
}

// QuickLaunch is best-effort, instruments hitting its timeout after the simulator came up is not an error
func (i *Instruments) QuickLaunch(ctx context.Context, udid string) error {
	logger.ProviderLogger.LogInfo("ios_sim", fmt.Sprintf("Quick launching simulator `%s` with instruments template `%s`", udid, i.Template))

	run := i.Run
	if run == nil {
		run = shellCommand
	}

	output, err := run(ctx, i.Timeout, "xcrun", "instruments", "-w", udid, "-t", i.Template, "-l", "1")
	if err != nil {
		if errors.Is(err, sh.ErrExecTimeout) {
			logger.ProviderLogger.LogWarn("ios_sim", fmt.Sprintf("instruments timed out after %v while launching simulator `%s`", i.Timeout, udid))
			return nil
		}
		return fmt.Errorf("instruments launch of `%s` failed: %w (output: %s)", udid, err, string(output))
	}
	return nil
}
