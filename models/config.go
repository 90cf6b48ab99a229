package models

import "time"

type ConfigJsonData struct {
	EnvConfig    EnvConfig    `json:"env-config" mapstructure:"env-config"`
	WarmUpConfig WarmUpConfig `json:"warmup-config" mapstructure:"warmup-config"`
}

type EnvConfig struct {
	Port           string        `json:"port" mapstructure:"port"`
	LogLevel       string        `json:"log_level" mapstructure:"log_level"`
	LogFolder      string        `json:"log_folder" mapstructure:"log_folder"`
	DevicesRoot    string        `json:"devices_root" mapstructure:"devices_root"`
	XcodeVersion   string        `json:"xcode_version" mapstructure:"xcode_version"`
	CommandTimeout time.Duration `json:"command_timeout" mapstructure:"command_timeout"`
}

type WarmUpConfig struct {
	Retries        int           `json:"retries" mapstructure:"retries"`
	Interval       time.Duration `json:"interval" mapstructure:"interval"`
	LaunchTemplate string        `json:"launch_template" mapstructure:"launch_template"`
}
