package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shamanec/GADS-simulator/models"
	"github.com/spf13/viper"
)

var Config models.ConfigJsonData

const envPrefix = "GADS_SIM"

func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("env-config.port", "10001")
	v.SetDefault("env-config.log_level", "info")
	v.SetDefault("env-config.log_folder", "./logs")
	v.SetDefault("env-config.devices_root", filepath.Join(homeDir, "Library", "Developer", "CoreSimulator", "Devices"))
	v.SetDefault("env-config.xcode_version", "")
	v.SetDefault("env-config.command_timeout", 60*time.Second)
	v.SetDefault("warmup-config.retries", 15)
	v.SetDefault("warmup-config.interval", 250*time.Millisecond)
	v.SetDefault("warmup-config.launch_template", "Blank")
}

// SetupConfig loads `config.json` from configFile, or from `.` and `$HOME/.gads-sim` when empty.
// A missing config file is fine, defaults and GADS_SIM_* env variables are used then.
func SetupConfig(configFile string) error {
	loaded, err := Load(configFile)
	if err != nil {
		return err
	}
	Config = loaded
	return nil
}

func Load(configFile string) (models.ConfigJsonData, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return models.ConfigJsonData{}, fmt.Errorf("could not get home dir - %w", err)
	}

	v := viper.New()
	setDefaults(v, homeDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(homeDir, ".gads-sim"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return models.ConfigJsonData{}, fmt.Errorf("could not read config - %w", err)
		}
	}

	var data models.ConfigJsonData
	if err := v.Unmarshal(&data); err != nil {
		return models.ConfigJsonData{}, fmt.Errorf("could not parse config - %w", err)
	}

	if data.WarmUpConfig.Retries <= 0 {
		return models.ConfigJsonData{}, fmt.Errorf("warmup retries must be positive, got %d", data.WarmUpConfig.Retries)
	}
	if data.WarmUpConfig.Interval <= 0 {
		return models.ConfigJsonData{}, fmt.Errorf("warmup interval must be positive, got %v", data.WarmUpConfig.Interval)
	}

	return data, nil
}
