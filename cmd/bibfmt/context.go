package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bibfmt"
	"github.com/goliatone/go-bibfmt/internal/logging"
	"github.com/goliatone/go-bibfmt/pkg/config"
	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/filetype"
	"github.com/goliatone/go-bibfmt/pkg/transform"
	"github.com/goliatone/go-bibfmt/pkg/tui"
)

const (
	configEnv          = "BIBFMT_CONFIG"
	remoteFetchTimeout = 10 * time.Second
)

// newPromptDriver builds the terminal driver; tests swap it for a script.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

type globalFlags struct {
	config    string
	database  string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger

	registryOnce sync.Once
	registry     *transform.Registry
	types        *filetype.Registry
	registryErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags, logger: logging.Discard()}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		location := strings.TrimSpace(c.flags.config)
		if location == "" {
			location = strings.TrimSpace(os.Getenv(configEnv))
		}

		cfg := config.Default()
		if location != "" {
			loaded, err := bibfmt.LoadConfig(cmd.Context(), parseSource(location), config.WithHTTPFallback(remoteFetchTimeout))
			if err != nil {
				c.configErr = fmt.Errorf("load config %s: %w", location, err)
				return
			}
			cfg = loaded
		}
		if c.flags.logLevel != "" {
			cfg.Logging.Level = c.flags.logLevel
		}
		if c.flags.logFormat != "" {
			cfg.Logging.Format = c.flags.logFormat
		}

		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
		if location != "" {
			logger.Debug("configuration loaded", slog.String("source", location))
		}
	})
	return c.config, c.configErr
}

func (c *commandContext) registries() (*transform.Registry, *filetype.Registry, error) {
	c.registryOnce.Do(func() {
		if c.config == nil {
			c.registryErr = errors.New("configuration not loaded")
			return
		}
		c.registry, c.registryErr = c.config.Registry()
		if c.registryErr != nil {
			return
		}
		c.types, c.registryErr = c.config.FileTypeRegistry()
	})
	return c.registry, c.types, c.registryErr
}

func (c *commandContext) expander() (*expand.Expander, error) {
	registry, _, err := c.registries()
	if err != nil {
		return nil, err
	}
	return expand.New(registry), nil
}

func (c *commandContext) database(cmd *cobra.Command) (*entry.Database, error) {
	path := strings.TrimSpace(c.flags.database)
	if path == "" {
		return nil, errors.New("no database given; pass --db")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		path = "stdin"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	db, err := entry.Decode(data, path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("database loaded", slog.String("source", path), slog.Int("entries", db.Len()))
	return db, nil
}

// selectEntries returns the entries named by keys, or all entries when keys
// is empty.
func selectEntries(db *entry.Database, keys []string) ([]*entry.Entry, error) {
	if len(keys) == 0 {
		return db.Entries(), nil
	}
	out := make([]*entry.Entry, 0, len(keys))
	for _, key := range keys {
		e, ok := db.Entry(strings.TrimSpace(key))
		if !ok {
			return nil, fmt.Errorf("no entry with key %q", key)
		}
		out = append(out, e)
	}
	return out, nil
}

func singleEntry(db *entry.Database, key string) (*entry.Entry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("--key is required")
	}
	entries, err := selectEntries(db, []string{key})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

func parseSource(raw string) config.Source {
	location := strings.TrimSpace(raw)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return config.SourceFromURL(location)
	}
	return config.SourceFromFile(location)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
