package ios_sim

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
)

// CommandRunner executes a binary and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, err
	}

	return output, nil
}

// Simctl controls simulators through `xcrun simctl`
type Simctl struct {
	Timeout time.Duration
	Run     CommandRunner
}

func NewSimctl(timeout time.Duration) *Simctl {
	return &Simctl{
		Timeout: timeout,
		Run:     execCommand,
	}
}

func (s *Simctl) xcrun(ctx context.Context, args ...string) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	run := s.Run
	if run == nil {
		run = execCommand
	}

	output, err := run(ctx, "xcrun", args...)
	if err != nil {
		return nil, fmt.Errorf("xcrun %v failed: %w (output: %s)", args, err, string(output))
	}
	return output, nil
}

// ListDevices returns the simctl device catalog grouped by runtime
func (s *Simctl) ListDevices(ctx context.Context) (models.SimctlDevices, error) {
	output, err := s.xcrun(ctx, "simctl", "list", "devices", "-j")
	if err != nil {
		return models.SimctlDevices{}, err
	}

	var simData models.SimctlDevices
	err = json.Unmarshal(output, &simData)
	if err != nil {
		return models.SimctlDevices{}, fmt.Errorf("could not parse simctl device list - %w", err)
	}
	return simData, nil
}

func (s *Simctl) GetBootedSims(ctx context.Context) ([]models.SimctlDevice, error) {
	simData, err := s.ListDevices(ctx)
	if err != nil {
		return []models.SimctlDevice{}, err
	}

	var bootedSims []models.SimctlDevice
	for _, device := range simData.Flatten() {
		if device.State == "Booted" {
			bootedSims = append(bootedSims, device)
		}
	}
	return bootedSims, nil
}

func (s *Simctl) GetAvailableSims(ctx context.Context) ([]models.SimctlDevice, error) {
	simData, err := s.ListDevices(ctx)
	if err != nil {
		return []models.SimctlDevice{}, err
	}

	var availableSims []models.SimctlDevice
	for _, device := range simData.Flatten() {
		if device.IsAvailable {
			availableSims = append(availableSims, device)
		}
	}
	return availableSims, nil
}

func (s *Simctl) Erase(ctx context.Context, udid string) error {
	logger.ProviderLogger.LogInfo("ios_sim", fmt.Sprintf("Erasing simulator `%s`", udid))
	_, err := s.xcrun(ctx, "simctl", "erase", udid)
	return err
}

// Shutdown is a no-op for simulators that are not booted, simctl errors out on those
func (s *Simctl) Shutdown(ctx context.Context, udid string) error {
	logger.ProviderLogger.LogInfo("ios_sim", fmt.Sprintf("Shutting down simulator `%s`", udid))
	bootedSims, err := s.GetBootedSims(ctx)
	if err != nil {
		return err
	}

	for _, bootedSim := range bootedSims {
		if bootedSim.UDID == udid {
			_, err = s.xcrun(ctx, "simctl", "shutdown", udid)
			return err
		}
	}
	logger.ProviderLogger.LogDebug("ios_sim", fmt.Sprintf("Simulator `%s` is not booted", udid))
	return nil
}

func (s *Simctl) Delete(ctx context.Context, udid string) error {
	logger.ProviderLogger.LogInfo("ios_sim", fmt.Sprintf("Deleting simulator `%s`", udid))
	_, err := s.xcrun(ctx, "simctl", "delete", udid)
	return err
}
