// Package config loads blog-reviewer tooling configuration from an optional
// YAML file, .env files and environment variables.
//
// Sources, lowest to highest priority:
//
//  1. defaults (setDefaults)
//  2. the YAML file at CONFIG_PATH (default config.yml), if it exists
//  3. .env, then .env.local, or only ENV_FILE when set
//  4. process environment, through `env:"NAME"` struct tags
//
// The file is optional because the bootstrap usually runs inside a container
// that is configured through the environment alone.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when CONFIG_PATH is unset.
const DefaultConfigFile = "config.yml"

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local and .env.
// godotenv never overrides variables that are already set, so .env.local
// wins over .env and the real environment wins over both.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}

	return nil
}

// loadFile decodes the YAML file at path into T. A missing file yields a zero T.
func loadFile[T any](path string) (*T, error) {
	var cfg T

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, unmarshalErr)
	}

	return &cfg, nil
}

// loadWithDefaults reads path, applies env overrides, fills remaining zero
// values through setDefaults and re-applies env so the environment always wins.
func loadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg, err := loadFile[T](path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	if setDefaults != nil {
		setDefaults(cfg)
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// GetConfigPath returns CONFIG_PATH or defaultPath.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}

func applyEnvOverrides(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	applyEnvToStruct(v)
}

func applyEnvToStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			applyEnvToStruct(field)
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}

		if val, ok := os.LookupEnv(name); ok && val != "" {
			setFieldFromString(field, val)
		}
	}
}

// setFieldFromString converts val into field's kind. Unparseable values are
// ignored and leave the field untouched; Validate reports the consequences.
func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}

	case reflect.Bool:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			field.SetBool(b)
		} else {
			field.SetBool(strings.EqualFold(strings.TrimSpace(val), "yes"))
		}

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(val, ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
}
