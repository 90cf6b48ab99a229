package sim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WarmUpResult tells whether the filesystem got populated or the retries ran out
type WarmUpResult struct {
	Populated bool
	Attempts  int
	// Missing holds the boot artifacts still absent at the last poll
	Missing []string
}

// Erase leaves the cached bundle paths in place, treat them as stale afterwards
func (s *Simulator) Erase(ctx context.Context) error {
	if err := s.checkUsable(); err != nil {
		return err
	}
	return s.control.Erase(ctx, s.udid)
}

// Clean is an alias for Erase
func (s *Simulator) Clean(ctx context.Context) error {
	return s.Erase(ctx)
}

func (s *Simulator) Shutdown(ctx context.Context) error {
	if err := s.checkUsable(); err != nil {
		return err
	}
	return s.control.Shutdown(ctx, s.udid)
}

// Delete removes the device, only UDID and XcodeVersion stay usable on the handle afterwards
func (s *Simulator) Delete(ctx context.Context) error {
	if err := s.checkUsable(); err != nil {
		return err
	}
	if err := s.control.Delete(ctx, s.udid); err != nil {
		return err
	}
	s.deleted.Store(true)
	return nil
}

// LaunchAndQuit boots the simulator so the OS populates its filesystem, then shuts it down.
// Running out of retries is not an error, the caller continues best-effort and can check WarmUpResult.Populated.
// It always ends by killing every simulator process on the host, other devices included.
func (s *Simulator) LaunchAndQuit(ctx context.Context) (WarmUpResult, error) {
	if err := s.checkUsable(); err != nil {
		return WarmUpResult{}, err
	}

	s.log.LogInfo("simulator_warmup", fmt.Sprintf("Launching simulator `%s` to populate its filesystem", s.udid))

	var result WarmUpResult
	err := s.launcher.QuickLaunch(ctx, s.udid)
	if err == nil {
		result, err = s.awaitPopulation(ctx)
	}

	// Cleanup also runs when ctx was cancelled during the poll
	quitErr := s.quit(context.WithoutCancel(ctx))
	if err != nil {
		return result, errors.Join(err, quitErr)
	}
	return result, quitErr
}

func (s *Simulator) awaitPopulation(ctx context.Context) (WarmUpResult, error) {
	var result WarmUpResult
	for attempt := 1; attempt <= s.warmUpRetries; attempt++ {
		report, err := s.Freshness(ctx)
		if err != nil {
			return result, err
		}

		result.Attempts = attempt
		result.Missing = report.Missing
		if !report.Fresh {
			result.Populated = true
			s.log.LogInfo("simulator_warmup", fmt.Sprintf("Simulator `%s` filesystem populated after %d checks", s.udid, attempt))
			return result, nil
		}

		if attempt == s.warmUpRetries {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(s.warmUpInterval):
		}
	}

	s.log.LogWarn("simulator_warmup", fmt.Sprintf("Simulator `%s` still looks fresh after %d checks, missing %v. Continuing anyway", s.udid, result.Attempts, result.Missing))
	return result, nil
}

func (s *Simulator) quit(ctx context.Context) error {
	shutdownErr := s.control.Shutdown(ctx, s.udid)
	if shutdownErr != nil {
		s.log.LogError("simulator_warmup", fmt.Sprintf("Could not shut down simulator `%s` after warm-up - %s", s.udid, shutdownErr))
	}

	sweepErr := s.sweeper.KillAllSimulators(ctx)
	if sweepErr != nil {
		s.log.LogError("simulator_warmup", fmt.Sprintf("Could not kill simulator processes after warm-up of `%s` - %s", s.udid, sweepErr))
	}

	return errors.Join(shutdownErr, sweepErr)
}
