// SPDX-License-Identifier: MPL-2.0

package compose

import "time"

// RemoveImages selects which images "down" removes.
type RemoveImages string

const (
	RemoveImagesAll   RemoveImages = "all"
	RemoveImagesLocal RemoveImages = "local"
)

type (
	// CommonOptions select the project. They precede the subcommand.
	CommonOptions struct {
		Files       []string
		EnvFile     string
		ProjectName string
	}

	// UpOptions configures "up".
	UpOptions struct {
		CommonOptions
		Profiles []string
		Detached bool
		Build    bool
		// Scale maps service names to replica counts.
		Scale   map[string]int
		Timeout *time.Duration
		Wait    bool
		// CustomOptions is passed through verbatim before the services.
		CustomOptions string
		Services      []string
	}

	// DownOptions configures "down".
	DownOptions struct {
		CommonOptions
		RemoveImages  RemoveImages
		RemoveVolumes bool
		Timeout       *time.Duration
		CustomOptions string
	}

	// StartOptions configures "start".
	StartOptions struct {
		CommonOptions
		Services []string
	}

	// StopOptions configures "stop" and "restart".
	StopOptions struct {
		CommonOptions
		Timeout  *time.Duration
		Services []string
	}

	// LogsOptions configures "logs".
	LogsOptions struct {
		CommonOptions
		Follow bool
		// Tail limits output to the last N lines per service when positive.
		Tail     int
		Services []string
	}

	// ConfigOptions configures "config".
	ConfigOptions struct {
		CommonOptions
		Type ConfigType
	}
)
