package fanlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds logger and handler configuration values
type Config struct {
	// Basic settings
	Name  string `toml:"name"`  // Logger name
	Level string `toml:"level"` // Dispatcher threshold name

	// Formatting, shared by all handlers
	Format         string `toml:"format"`          // Placeholder template
	DatetimeFormat string `toml:"datetime_format"` // Go layout for {datetime}
	NoColor        bool   `toml:"no_color"`        // Strip color sequences

	// Console handler
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"
	ConsoleLevel  string `toml:"console_level"`  // Empty passes everything the dispatcher passes

	// Rotating file handler
	EnableFile     bool   `toml:"enable_file"`
	FilePath       string `toml:"file_path"`
	FileMode       string `toml:"file_mode"` // "append", "truncate-write" or "create-exclusive"
	FileMaxBytes   int64  `toml:"file_max_bytes"`
	FileMaxBackups int64  `toml:"file_max_backups"`
	FileLevel      string `toml:"file_level"`

	// Remote handler
	EnableRemote         bool   `toml:"enable_remote"`
	RemoteToken          string `toml:"remote_token"`
	RemoteChatID         string `toml:"remote_chat_id"`
	RemoteProject        string `toml:"remote_project"`
	RemoteBaseURL        string `toml:"remote_base_url"`
	RemoteLevel          string `toml:"remote_level"`
	RemoteIntervalMs     int64  `toml:"remote_interval_ms"`      // Minimum spacing between deliveries
	RemoteFlushTimeoutMs int64  `toml:"remote_flush_timeout_ms"` // Backlog budget on shutdown

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Name:  "root",
	Level: "info",

	// Formatting
	Format:         DefaultTemplate,
	DatetimeFormat: DefaultDatetimeFormat,
	NoColor:        false,

	// Console
	EnableConsole: true,
	ConsoleTarget: "stderr",

	// File
	EnableFile:     false,
	FilePath:       "./logs/app.log",
	FileMode:       string(ModeAppend),
	FileMaxBytes:   10 * 1024 * 1024,
	FileMaxBackups: 5,

	// Remote
	EnableRemote:         false,
	RemoteBaseURL:        defaultRemoteBaseURL,
	RemoteIntervalMs:     defaultRemoteInterval.Milliseconds(),
	RemoteFlushTimeoutMs: defaultRemoteFlushTimeout.Milliseconds(),

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fieldMap := configFields(cfg)

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// configFields maps toml tags to settable field values
func configFields(cfg *Config) map[string]reflect.Value {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}
	return fieldMap
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface whole numbers as floats
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("logger name cannot be empty")
	}

	for key, lvl := range map[string]string{
		"level": c.Level, "console_level": c.ConsoleLevel,
		"file_level": c.FileLevel, "remote_level": c.RemoteLevel,
	} {
		if key != "level" && lvl == "" {
			continue
		}
		if _, err := ParseLevel(lvl); err != nil {
			return fmtErrorf("invalid %s: %w", key, err)
		}
	}

	if strings.TrimSpace(c.DatetimeFormat) == "" {
		return fmtErrorf("datetime_format cannot be empty")
	}

	if c.EnableConsole && c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.EnableFile {
		if strings.TrimSpace(c.FilePath) == "" {
			return fmtErrorf("file_path cannot be empty when file output is enabled")
		}
		if _, err := ParseFileMode(c.FileMode); err != nil {
			return err
		}
		if c.FileMaxBytes < 1 {
			return fmtErrorf("file_max_bytes must be at least 1: %d", c.FileMaxBytes)
		}
		if c.FileMaxBackups < 1 {
			return fmtErrorf("file_max_backups must be at least 1: %d", c.FileMaxBackups)
		}
	}

	if c.EnableRemote {
		if strings.TrimSpace(c.RemoteToken) == "" || strings.TrimSpace(c.RemoteChatID) == "" {
			return fmtErrorf("remote_token and remote_chat_id are required when remote output is enabled")
		}
		if c.RemoteIntervalMs <= 0 || c.RemoteFlushTimeoutMs < 0 {
			return fmtErrorf("remote interval must be positive and flush timeout non-negative")
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
