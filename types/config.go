/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Config   string         `mapstructure:"config"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Executor ExecutorConfig `mapstructure:"executor" validate:"required"`
	Log      LogConfig      `mapstructure:"log"`
}

// HistoryConfig holds history document storage configuration
type HistoryConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// ExecutorConfig holds the package front-end used to replay undo/redo plans
type ExecutorConfig struct {
	// Command is split like a shell would, e.g. "apt-get -o Dpkg::Use-Pty=0".
	Command string `mapstructure:"command" validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level     string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"maxSizeMB" validate:"omitempty,min=1,max=1024"`
	CrashDir  string `mapstructure:"crashDir"`
}
