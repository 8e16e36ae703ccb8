package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OndrejVasicek/go-ppl-myapi/ppl"
	"github.com/OndrejVasicek/go-ppl-myapi/tokenstore"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to reach the API. Values are
// merged from three sources with increasing priority: the YAML config
// file, environment variables, command line flags.
type Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Environment  string `yaml:"environment"`
}

// loadConfig reads the YAML config file when one exists and layers the
// PPL_* environment variables and global flags on top.
func loadConfig() (*Config, error) {
	cfg := &Config{}

	path := configFlag
	if path == "" {
		dir, err := os.UserConfigDir()
		if err == nil {
			path = filepath.Join(dir, "ppl", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cli: parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && configFlag == "":
			// Default location is optional.
		default:
			return nil, fmt.Errorf("cli: read config: %w", err)
		}
	}

	if v := os.Getenv("PPL_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("PPL_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv("PPL_ENV"); v != "" {
		cfg.Environment = v
	}
	if envFlag != "" {
		cfg.Environment = envFlag
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.ClientID == "" {
		return errors.New("cli: client id missing, set PPL_CLIENT_ID or client_id in the config file")
	}
	if c.ClientSecret == "" {
		return errors.New("cli: client secret missing, set PPL_CLIENT_SECRET or client_secret in the config file")
	}
	switch c.Environment {
	case "", "test", "prod":
	default:
		return fmt.Errorf("cli: unknown environment %q, want prod or test", c.Environment)
	}
	return nil
}

func (c *Config) production() bool { return c.Environment == "prod" }

// newClient builds an API client from the merged configuration. Tokens
// are cached in the system keyring unless --no-cache is set.
func newClient(ctx context.Context) (*ppl.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	clientCfg := ppl.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Production:   cfg.production(),
	}
	if !noCacheFlag {
		store, err := tokenstore.NewKeyring("ppl-cli")
		if err != nil {
			return nil, fmt.Errorf("cli: open keyring: %w", err)
		}
		clientCfg.TokenStore = store
	}

	return ppl.NewClient(ctx, clientCfg)
}
