// Package config loads Olympus's two configuration surfaces — the code
// generator's CodegenConfig and the dispatch runtime's RuntimeConfig —
// from a YAML/TOML file over built-in defaults, with OLYMPUS_RUNTIME_* /
// OLYMPUS_CODEGEN_* environment variables overriding keys the file sets,
// through the same viper + mapstructure + go-playground/validator
// pipeline the rest of this codebase's ambient stack is built on.
// Command-line flags are not read by this package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/olympusrpc/olympus/internal/naming"
	"github.com/olympusrpc/olympus/pkg/frame"
	"github.com/olympusrpc/olympus/pkg/rpc"
)

var durationType = reflect.TypeOf(time.Duration(0))

// CodegenConfig governs one olympusc code-generation pass: which
// identifier case each of the four naming categories emits in, the
// target language, and whether existing output files may be overwritten
// without prompting.
type CodegenConfig struct {
	// Language selects the code generator backend. Only "go" is
	// implemented; other values are accepted by the flag surface for
	// compatibility but rejected at generation time.
	Language string `mapstructure:"language" validate:"required" yaml:"language"`

	// PackageName is the Go package name emitted into generated files.
	PackageName string `mapstructure:"package_name" validate:"required" yaml:"package_name"`

	// Types, EnumVariants, StructFields and Procedures each select one of
	// pascal, lower-camel, snake, shouty-snake, kebab, shouty-kebab.
	Types        string `mapstructure:"types" validate:"required,oneof=pascal lower-camel snake shouty-snake kebab shouty-kebab" yaml:"types"`
	EnumVariants string `mapstructure:"enum_variants" validate:"required,oneof=pascal lower-camel snake shouty-snake kebab shouty-kebab" yaml:"enum_variants"`
	StructFields string `mapstructure:"struct_fields" validate:"required,oneof=pascal lower-camel snake shouty-snake kebab shouty-kebab" yaml:"struct_fields"`
	Procedures   string `mapstructure:"procedures" validate:"required,oneof=pascal lower-camel snake shouty-snake kebab shouty-kebab" yaml:"procedures"`

	// Overwrite skips the interactive confirmation prompt before
	// replacing an existing output file.
	Overwrite bool `mapstructure:"overwrite" yaml:"overwrite"`
}

// NamingConfig converts the four string fields into an internal/naming.Config.
func (c CodegenConfig) NamingConfig() naming.Config {
	return naming.Config{
		Types:        parseCase(c.Types),
		EnumVariants: parseCase(c.EnumVariants),
		StructFields: parseCase(c.StructFields),
		Procedures:   parseCase(c.Procedures),
	}
}

func parseCase(s string) naming.Case {
	switch s {
	case "lower-camel":
		return naming.LowerCamel
	case "snake":
		return naming.Snake
	case "shouty-snake":
		return naming.ShoutySnake
	case "kebab":
		return naming.Kebab
	case "shouty-kebab":
		return naming.ShoutyKebab
	default:
		return naming.Pascal
	}
}

// RuntimeConfig governs one server or client process: the frame codec's
// mode and compression threshold, the address to listen on or dial, and
// the ambient logging/metrics/tracing settings.
type RuntimeConfig struct {
	// ListenAddress is the TCP address a server binds, or a client dials.
	ListenAddress string `mapstructure:"listen_address" validate:"required" yaml:"listen_address"`

	// Compressed selects frame.Compressed mode; both peers must agree.
	Compressed bool `mapstructure:"compressed" yaml:"compressed"`

	// MinSizeToCompress overrides frame.DefaultMinSizeToCompress.
	MinSizeToCompress int `mapstructure:"min_size_to_compress" validate:"omitempty,gt=0" yaml:"min_size_to_compress"`

	// DialTimeout bounds Client connection attempts; zero means no
	// timeout. Accepts a Go duration string ("5s") from YAML/env, decoded
	// via durationDecodeHook.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`

	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// FrameMode maps Compressed to a frame.Mode.
func (c RuntimeConfig) FrameMode() frame.Mode {
	if c.Compressed {
		return frame.Compressed
	}
	return frame.Uncompressed
}

// ServerConfig builds the pkg/rpc.ServerConfig a Server or Client should
// be constructed with.
func (c RuntimeConfig) ServerConfig() rpc.ServerConfig {
	minSize := c.MinSizeToCompress
	if minSize == 0 {
		minSize = frame.DefaultMinSizeToCompress
	}
	return rpc.ServerConfig{
		Mode:              c.FrameMode(),
		MinSizeToCompress: minSize,
		DialTimeout:       c.DialTimeout,
	}
}

// LoggingConfig controls internal/logger behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig configures the Prometheus metrics HTTP server exposed by
// pkg/metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" validate:"omitempty" yaml:"address"`
}

// TelemetryConfig controls OpenTelemetry tracing and Pyroscope profiling.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// DefaultCodegenConfig returns a CodegenConfig with every naming category
// set to pascal, Go as the target language, and overwrite confirmation
// enabled.
func DefaultCodegenConfig() *CodegenConfig {
	return &CodegenConfig{
		Language:     "go",
		PackageName:  "olympusgen",
		Types:        "pascal",
		EnumVariants: "pascal",
		StructFields: "pascal",
		Procedures:   "pascal",
		Overwrite:    false,
	}
}

// DefaultRuntimeConfig returns a RuntimeConfig suitable for local
// development: uncompressed framing, info-level text logging, metrics
// disabled.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		ListenAddress:     "127.0.0.1:9321",
		Compressed:        false,
		MinSizeToCompress: frame.DefaultMinSizeToCompress,
		DialTimeout:       5 * time.Second,
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9090",
		},
		Telemetry: TelemetryConfig{
			Enabled:    false,
			Endpoint:   "localhost:4317",
			Insecure:   true,
			SampleRate: 1.0,
		},
	}
}

// LoadRuntimeConfig loads a RuntimeConfig from the file at configPath
// (./olympus.yaml when configPath is empty) over DefaultRuntimeConfig.
// OLYMPUS_RUNTIME_* environment variables override only keys the file
// sets; when no file is found the defaults are returned unchanged and the
// environment is not read.
func LoadRuntimeConfig(configPath string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	v := viper.New()
	setupViper(v, configPath, "olympus-runtime")

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("default runtime config failed validation: %w", err)
		}
		return cfg, nil
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("unmarshal runtime config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("runtime config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadCodegenConfig loads a CodegenConfig the same way as LoadRuntimeConfig.
func LoadCodegenConfig(configPath string) (*CodegenConfig, error) {
	cfg := DefaultCodegenConfig()

	v := viper.New()
	setupViper(v, configPath, "olympus-codegen")

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("default codegen config failed validation: %w", err)
		}
		return cfg, nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal codegen config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("codegen config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate runs go-playground/validator's struct tags against cfg.
func Validate(cfg any) error {
	return validator.New().Struct(cfg)
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed.
func SaveConfig(cfg any, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func setupViper(v *viper.Viper, configPath, envPrefix string) {
	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(envPrefix, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(".")
	v.SetConfigName("olympus")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}
