package fanlog

import (
	"reflect"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to a clone of the configuration.
// Each override should be in the format "key=value". The receiver is updated
// only if every override parses and the result validates.
//
// Example:
//
//	cfg := fanlog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "level=warning",
//	    "enable_file=true",
//	    "file_path=/var/log/app.log",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	cfg := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	*c = *cfg
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	for i, err := range errors {
		// Drop the package prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), "fanlog: ")
		sb.WriteString("\n  ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(errMsg)
	}
	return fmtErrorf("multiple configuration errors:%s", sb.String())
}

// applyConfigField parses value for the field tagged key and stores it
func applyConfigField(cfg *Config, key, value string) error {
	field, ok := configFields(cfg)[key]
	if !ok {
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
		}
		field.SetInt(intVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		field.SetBool(boolVal)
	default:
		return fmtErrorf("unsupported type for configuration key '%s'", key)
	}

	return nil
}
