// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	// EngineAuto probes PATH for docker, then podman.
	EngineAuto EngineName = "auto"
	// EngineDocker uses the Docker CLI.
	EngineDocker EngineName = "docker"
	// EnginePodman uses the Podman CLI.
	EnginePodman EngineName = "podman"

	// ShellNone renders argument vectors without shell quoting.
	ShellNone ShellName = "none"
	// ShellBash renders dry-run command lines for POSIX shells.
	ShellBash ShellName = "bash"
	// ShellPowerShell renders dry-run command lines for PowerShell.
	ShellPowerShell ShellName = "powershell"
	// ShellCmd renders dry-run command lines for cmd.exe.
	ShellCmd ShellName = "cmd"

	// OutputTable prints styled tables.
	OutputTable OutputFormat = "table"
	// OutputJSON prints normalized records as JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints normalized records as YAML.
	OutputYAML OutputFormat = "yaml"
	// OutputTOML prints normalized records as TOML.
	OutputTOML OutputFormat = "toml"
)

var (
	// ErrInvalidEngineName is returned when an EngineName value is not recognized.
	ErrInvalidEngineName = errors.New("invalid engine")
	// ErrInvalidShellName is returned when a ShellName value is not recognized.
	ErrInvalidShellName = errors.New("invalid shell")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidAPIConstraint is returned when min_api_version is not a semver constraint.
	ErrInvalidAPIConstraint = errors.New("invalid API version constraint")
	// ErrInvalidRetryConfig is the sentinel error wrapped by InvalidRetryConfigError.
	ErrInvalidRetryConfig = errors.New("invalid retry config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// EngineName selects the container engine CLI.
	EngineName string

	// InvalidEngineNameError is returned when an EngineName value is not recognized.
	// It wraps ErrInvalidEngineName for errors.Is() compatibility.
	InvalidEngineNameError struct {
		Value EngineName
	}

	// ShellName selects how dry-run command lines are quoted.
	ShellName string

	// InvalidShellNameError is returned when a ShellName value is not recognized.
	InvalidShellNameError struct {
		Value ShellName
	}

	// OutputFormat selects how records are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// BinaryFilePath is a path to the engine executable.
	// The zero value ("") is valid and means "use the engine's default name".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// APIConstraint is a semver constraint on the engine API version, such as
	// ">= 1.41". The zero value disables the check.
	APIConstraint string

	// InvalidAPIConstraintError is returned when an APIConstraint does not parse.
	InvalidAPIConstraintError struct {
		Value APIConstraint
		Err   error
	}

	// InvalidRetryConfigError is returned when a RetryConfig has invalid fields.
	InvalidRetryConfigError struct {
		Attempts       int
		InitialBackoff time.Duration
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the ctrkit configuration.
	Config struct {
		// Engine selects docker, podman, or auto-detection.
		Engine EngineName `json:"engine" yaml:"engine" toml:"engine" mapstructure:"engine"`
		// Command overrides the engine binary name or path.
		Command BinaryFilePath `json:"command" yaml:"command" toml:"command" mapstructure:"command"`
		// Shell selects the quoting used when printing command lines.
		Shell ShellName `json:"shell" yaml:"shell" toml:"shell" mapstructure:"shell"`
		// Strict selects strict parsing per call class.
		Strict StrictConfig `json:"strict" yaml:"strict" toml:"strict" mapstructure:"strict"`
		// Retry configures retries of idempotent engine calls.
		Retry RetryConfig `json:"retry" yaml:"retry" toml:"retry" mapstructure:"retry"`
		// MinAPIVersion is checked by "ctrkit check" when set.
		MinAPIVersion APIConstraint `json:"min_api_version" yaml:"min_api_version" toml:"min_api_version" mapstructure:"min_api_version"`
		// UI contains user interface settings.
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}

	// StrictConfig selects strict parsing per call class. Mutating calls
	// are always strict.
	StrictConfig struct {
		Query   bool `json:"query" yaml:"query" toml:"query" mapstructure:"query"`
		List    bool `json:"list" yaml:"list" toml:"list" mapstructure:"list"`
		Inspect bool `json:"inspect" yaml:"inspect" toml:"inspect" mapstructure:"inspect"`
		Stream  bool `json:"stream" yaml:"stream" toml:"stream" mapstructure:"stream"`
	}

	// RetryConfig configures retries of idempotent engine calls on
	// transient failures.
	RetryConfig struct {
		Attempts       int           `json:"attempts" yaml:"attempts" toml:"attempts" mapstructure:"attempts"`
		InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff" toml:"initial_backoff" mapstructure:"initial_backoff"`
	}

	// UIConfig contains user interface settings.
	UIConfig struct {
		// Verbose enables debug logging of engine invocations.
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// Output is the default record output format.
		Output OutputFormat `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineAuto,
		Shell:  ShellNone,
		Strict: StrictConfig{
			Query:   true,
			List:    false,
			Inspect: true,
			Stream:  false,
		},
		Retry: RetryConfig{
			Attempts:       3,
			InitialBackoff: 500 * time.Millisecond,
		},
		UI: UIConfig{
			Output: OutputTable,
		},
	}
}

// IsValid returns whether the Config has valid fields.
// It delegates to each typed field's IsValid method.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Engine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Shell.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Retry.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.MinAPIVersion.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidUIConfigError) Unwrap() []error {
	return append([]error{ErrInvalidUIConfig}, e.FieldErrors...)
}

// IsValid returns whether the RetryConfig is usable: at least one attempt
// and a positive initial backoff.
func (c RetryConfig) IsValid() (bool, []error) {
	if c.Attempts < 1 || c.InitialBackoff <= 0 {
		return false, []error{&InvalidRetryConfigError{Attempts: c.Attempts, InitialBackoff: c.InitialBackoff}}
	}
	return true, nil
}

func (e *InvalidRetryConfigError) Error() string {
	return fmt.Sprintf("invalid retry config: attempts %d must be >= 1 and initial backoff %s must be positive",
		e.Attempts, e.InitialBackoff)
}

func (e *InvalidRetryConfigError) Unwrap() error { return ErrInvalidRetryConfig }

func (n EngineName) String() string { return string(n) }

// IsValid returns whether the EngineName is one of the defined engines.
func (n EngineName) IsValid() (bool, []error) {
	switch n {
	case EngineAuto, EngineDocker, EnginePodman:
		return true, nil
	default:
		return false, []error{&InvalidEngineNameError{Value: n}}
	}
}

func (e *InvalidEngineNameError) Error() string {
	return fmt.Sprintf("invalid engine %q (valid: auto, docker, podman)", e.Value)
}

func (e *InvalidEngineNameError) Unwrap() error { return ErrInvalidEngineName }

func (n ShellName) String() string { return string(n) }

// IsValid returns whether the ShellName is one of the supported renderers.
func (n ShellName) IsValid() (bool, []error) {
	switch n {
	case ShellNone, ShellBash, ShellPowerShell, ShellCmd:
		return true, nil
	default:
		return false, []error{&InvalidShellNameError{Value: n}}
	}
}

func (e *InvalidShellNameError) Error() string {
	return fmt.Sprintf("invalid shell %q (valid: none, bash, powershell, cmd)", e.Value)
}

func (e *InvalidShellNameError) Unwrap() error { return ErrInvalidShellName }

func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputTable, OutputJSON, OutputYAML, OutputTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: table, json, yaml, toml)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value is valid; non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

func (c APIConstraint) String() string { return string(c) }

// IsValid returns whether the constraint parses. The zero value is valid.
func (c APIConstraint) IsValid() (bool, []error) {
	if c == "" {
		return true, nil
	}
	if _, err := semver.NewConstraint(string(c)); err != nil {
		return false, []error{&InvalidAPIConstraintError{Value: c, Err: err}}
	}
	return true, nil
}

func (e *InvalidAPIConstraintError) Error() string {
	return fmt.Sprintf("invalid API version constraint %q: %v", e.Value, e.Err)
}

func (e *InvalidAPIConstraintError) Unwrap() error { return ErrInvalidAPIConstraint }
