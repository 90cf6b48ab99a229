package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shamanec/GADS-simulator/config"
	"github.com/shamanec/GADS-simulator/ios_sim"
	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
	"github.com/shamanec/GADS-simulator/router"
	"github.com/shamanec/GADS-simulator/sim"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type app struct {
	registry *sim.Registry
	lister   router.SimLister
}

type appBuilder func(ctx context.Context, cfg models.ConfigJsonData) (*app, error)

func Execute() error {
	return newRootCmd(buildApp).Execute()
}

// buildApp wires the simctl, instruments and pkill collaborators into a handle registry
func buildApp(ctx context.Context, cfg models.ConfigJsonData) (*app, error) {
	timeout := cfg.EnvConfig.CommandTimeout
	simctl := ios_sim.NewSimctl(timeout)
	launcher := ios_sim.NewInstruments(cfg.WarmUpConfig.LaunchTemplate, timeout)
	sweeper := ios_sim.NewSweeper(timeout)
	fs := afero.NewOsFs()

	xcodeVersion := cfg.EnvConfig.XcodeVersion
	if xcodeVersion == "" {
		detected, err := ios_sim.XcodeVersion(ctx, nil)
		if err != nil {
			logger.ProviderLogger.LogWarn("simulator_setup", fmt.Sprintf("Could not detect Xcode version - %s", err))
		}
		xcodeVersion = detected
	}

	registry := sim.NewRegistry(func(udid string) (*sim.Simulator, error) {
		return sim.New(udid, xcodeVersion, sim.Options{
			Control:        simctl,
			Launcher:       launcher,
			Sweeper:        sweeper,
			Fs:             fs,
			Logger:         logger.ProviderLogger,
			DevicesRoot:    cfg.EnvConfig.DevicesRoot,
			WarmUpRetries:  cfg.WarmUpConfig.Retries,
			WarmUpInterval: cfg.WarmUpConfig.Interval,
		})
	})

	return &app{registry: registry, lister: simctl}, nil
}

func newRootCmd(build appBuilder) *cobra.Command {
	var configFile string
	var application *app

	rootCmd := &cobra.Command{
		Use:           "gads-sim",
		Short:         "Manage iOS simulator state for automated testing",
		Long:          "gads-sim inspects and controls iOS simulators: OS version, first boot state, app data folders, warm-up, erase, shutdown and delete.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.SetupConfig(configFile); err != nil {
				return err
			}
			if err := logger.SetupLogging(config.Config.EnvConfig.LogLevel, config.Config.EnvConfig.LogFolder); err != nil {
				return err
			}

			var err error
			application, err = build(cmd.Context(), config.Config)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.json")

	getApp := func() *app { return application }
	rootCmd.AddCommand(
		newServeCmd(getApp),
		newListCmd(getApp),
		newVersionCmd(getApp),
		newFreshCmd(getApp),
		newAppsCmd(getApp),
		newAppDirCmd(getApp),
		newWarmUpCmd(getApp),
		newEraseCmd(getApp),
		newShutdownCmd(getApp),
		newDeleteCmd(getApp),
	)

	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
