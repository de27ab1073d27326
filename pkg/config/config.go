// Package config loads BackupOptions overrides from a YAML file and
// environment variables, layered beneath CLI flags, in the teacher's own
// layering order (file, then environment, then flags win).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nalanj/treebackup/pkg/engine"
)

// fileConfig is the YAML shape of a backup.yaml file. Fields are pointers
// so that "absent" is distinguishable from "explicitly zero" when layering
// over defaults.
type fileConfig struct {
	MaxHashConcurrency   *int  `yaml:"max_hash_concurrency"`
	MaxFileIOConcurrency *int  `yaml:"max_file_io_concurrency"`
	DryRun               *bool `yaml:"dry_run"`
}

// Load builds a BackupOptions starting from engine.DefaultBackupOptions,
// then applying a YAML config file at yamlPath (if it exists), then
// environment variables (loaded from envPath via godotenv, matching the
// teacher's own pkg/environment use of the same library, plus whatever is
// already in the process environment).
func Load(yamlPath, envPath string) (engine.BackupOptions, error) {
	options := engine.DefaultBackupOptions()

	if yamlPath != "" {
		if err := applyYAML(yamlPath, &options); err != nil {
			return options, err
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return options, fmt.Errorf("unable to load environment file: %w", err)
		}
	}
	applyEnv(&options)

	return options, nil
}

func applyYAML(path string, options *engine.BackupOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var parsed fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	if parsed.MaxHashConcurrency != nil {
		options.MaxHashConcurrency = *parsed.MaxHashConcurrency
	}
	if parsed.MaxFileIOConcurrency != nil {
		options.MaxFileIOConcurrency = *parsed.MaxFileIOConcurrency
	}
	if parsed.DryRun != nil {
		options.DryRun = *parsed.DryRun
	}
	return nil
}

func applyEnv(options *engine.BackupOptions) {
	if v, ok := os.LookupEnv("TREEBACKUP_MAX_HASH_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			options.MaxHashConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("TREEBACKUP_MAX_FILE_IO_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			options.MaxFileIOConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("TREEBACKUP_DRY_RUN"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			options.DryRun = b
		}
	}
}
