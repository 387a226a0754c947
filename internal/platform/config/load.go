package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option adjusts how Load resolves configuration.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir overrides the directory holding the YAML layers, which
// defaults to "configs" under the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load resolves the configuration for a profile by stacking four layers,
// later layers winning:
//
//	built-in defaults
//	{configDir}/base.yaml
//	{configDir}/{profile}.yaml
//	APP_* environment variables
//
// Env names map onto config keys by matching against the keys already
// loaded, so APP_SYNC_STOREFRONT_URL lands on sync.storefront_url rather
// than being split at every underscore:
//
//	APP_SERVER_PORT               -> server.port
//	APP_SYNC_SECRET               -> sync.secret
//	APP_CLIENT_RETRY_MAX_ATTEMPTS -> client.retry.max_attempts
//
// The result is validated before it is returned.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := checkProfileName(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	for _, name := range []string{"base", profile} {
		path := filepath.Join(o.configDir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// loadEnv applies the APP_ environment layer. The key set loaded so far
// doubles as a reverse index, disambiguating underscores that belong to a
// field name from underscores that separate nesting levels.
func loadEnv(k *koanf.Koanf) error {
	index := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		index[strings.ReplaceAll(key, ".", "_")] = key
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if known, ok := index[key]; ok {
				return known, value
			}
			// Unknown key: best-effort dotting, validation catches junk.
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("loading env vars: %w", err)
	}
	return nil
}

// checkProfileName rejects names that would escape the config directory.
func checkProfileName(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}
