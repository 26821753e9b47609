package config

import (
	"io"
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Read reads a config from the given file path.
func Read(filePath string) (*Config, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", filePath)
	}
	return FromBytes(buf, filePath)
}

// FromReader reads a config from the given reader. The path is used only for
// error reporting and for noting where the config came from.
func FromReader(r io.Reader, filePath string) (*Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(buf, filePath)
}

// FromBytes parses raw YAML config data after substituting environment
// variable references of the form ${VAR}.
func FromBytes(data []byte, filePath string) (*Config, error) {
	expanded, err := envsubst.Bytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "error substituting environment variables in config")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, errors.Wrap(err, "cannot parse config as yaml")
	}
	cfg.ConfigFilePath = filePath
	return cfg, nil
}

// ReadAndEnsure reads a config and validates it, returning all violations.
func ReadAndEnsure(filePath string) (*Config, error) {
	cfg, err := Read(filePath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", filePath)
	}
	return cfg, nil
}
