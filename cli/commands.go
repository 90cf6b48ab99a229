package cli

import (
	"fmt"
	"net/http"

	"github.com/shamanec/GADS-simulator/config"
	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
	"github.com/shamanec/GADS-simulator/router"
	"github.com/spf13/cobra"
)

func newServeCmd(getApp func() *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = config.Config.EnvConfig.Port
			}
			a := getApp()
			handler := router.HandleRequests(&router.Handler{Registry: a.registry, Lister: a.lister})

			logger.ProviderLogger.LogInfo("simulator_server", fmt.Sprintf("Starting simulator API on port %s", port))
			fmt.Fprintf(cmd.OutOrStdout(), "Starting simulator API on port:%v\n", port)
			return http.ListenAndServe(":"+port, handler)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on, overrides the config")
	return cmd
}

func newListCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available simulators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sims, err := getApp().lister.GetAvailableSims(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sims)
		},
	}
}

func newVersionCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version <udid>",
		Short: "Print the simulator OS version and its data layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			version, err := s.PlatformVersion(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.PlatformVersionResponse{
				UDID:            s.UDID(),
				PlatformVersion: version.Raw,
				Layout:          version.Layout.String(),
			})
		},
	}
}

func newFreshCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fresh <udid>",
		Short: "Report whether the simulator was never booted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			report, err := s.Freshness(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.FreshnessResponse{
				UDID:    s.UDID(),
				Fresh:   report.Fresh,
				Checked: report.Checked,
				Missing: report.Missing,
			})
		},
	}
}

func newAppsCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apps <udid>",
		Short: "Print the data folder of every installed app, booting the simulator once if it was never booted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			paths, err := s.InstalledApps(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), paths)
		},
	}
}

func newAppDirCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "app-dir <udid> <bundle-id>",
		Short: "Print the data folder of an installed app, booting the simulator once if it was never booted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			dir, found, err := s.AppDataDir(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("app `%s` is not installed on simulator `%s`", args[1], s.UDID())
			}
			return printJSON(cmd.OutOrStdout(), models.AppDataDirResponse{
				UDID:     s.UDID(),
				BundleID: args[1],
				DataDir:  dir,
			})
		},
	}
}

func newWarmUpCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "warmup <udid>",
		Short: "Boot the simulator until its filesystem is populated, then shut it down and kill all simulator processes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			result, err := s.LaunchAndQuit(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.WarmUpResponse{
				UDID:      s.UDID(),
				Populated: result.Populated,
				Attempts:  result.Attempts,
				Missing:   result.Missing,
			})
		},
	}
}

func newEraseCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "erase <udid>",
		Short: "Erase all content and settings of the simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			s, err := a.registry.Get(args[0])
			if err != nil {
				return err
			}
			if err := s.Erase(cmd.Context()); err != nil {
				return err
			}
			a.registry.Forget(s.UDID())
			return printJSON(cmd.OutOrStdout(), models.JsonResponse{Message: "Simulator erased successfully"})
		},
	}
}

func newShutdownCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown <udid>",
		Short: "Shut down the simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getApp().registry.Get(args[0])
			if err != nil {
				return err
			}
			if err := s.Shutdown(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.JsonResponse{Message: "Simulator shutdown successfully"})
		},
	}
}

func newDeleteCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <udid>",
		Short: "Delete the simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			s, err := a.registry.Get(args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(cmd.Context()); err != nil {
				return err
			}
			a.registry.Forget(s.UDID())
			return printJSON(cmd.OutOrStdout(), models.JsonResponse{Message: "Simulator deleted successfully"})
		},
	}
}
