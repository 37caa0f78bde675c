package bibfmt

import (
	"context"

	internalLoader "github.com/goliatone/go-bibfmt/internal/loader"
	"github.com/goliatone/go-bibfmt/pkg/config"
)

// NewConfigLoader constructs the configuration loader while keeping the
// concrete type internal.
func NewConfigLoader(options ...config.LoaderOption) config.Loader {
	return internalLoader.New(config.NewLoaderOptions(options...))
}

// LoadConfig fetches and parses a configuration document.
func LoadConfig(ctx context.Context, src config.Source, options ...config.LoaderOption) (*config.Config, error) {
	return config.Load(ctx, NewConfigLoader(options...), src)
}
