// Package loader reads configuration documents from files, an fs.FS or
// HTTP, depending on the source kind.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-bibfmt/pkg/config"
)

// Loader implements config.Loader.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ config.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options config.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the document src points at.
func (l *Loader) Load(ctx context.Context, src config.Source) (config.Document, error) {
	if src == nil {
		return config.Document{}, errors.New("config loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case config.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case config.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case config.SourceKindURL:
		if !l.allowHTTP {
			return config.Document{}, errors.New("config loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("config loader: unsupported source kind")
	}
	if err != nil {
		return config.Document{}, err
	}

	return config.NewDocument(src, data)
}
