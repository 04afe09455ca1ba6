package config

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/nibzard/todolist/internal/logging"
)

// LoggingOptions converts the logging keys into logger options.
func (c *Config) LoggingOptions() (logging.Options, error) {
	return logging.ParseOptions(c.LogLevel, c.LogFormat, c.LogTimestamps, c.LogCaller)
}

// Value returns the value of the field with the given TOML key, formatted
// for display.
func (c *Config) Value(field string) (string, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") != field {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			return f.String(), nil
		case reflect.Bool:
			return strconv.FormatBool(f.Bool()), nil
		case reflect.Int:
			return strconv.FormatInt(f.Int(), 10), nil
		case reflect.Float64:
			return strconv.FormatFloat(f.Float(), 'g', -1, 64), nil
		}
	}
	return "", fmt.Errorf("unknown config key %q", field)
}

// Fields returns the configurable TOML keys in display order.
func Fields() []string {
	return configFields()
}
