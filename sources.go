package imgcache

import (
	"context"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/source"
)

// Sources is the byte source stack built from configuration. File and http(s)
// fetchers are always present and s3 and git ones are added when configured.
// Each fetcher sits behind an Async adapter and a Router dispatches by scheme.
type Sources struct {
	*source.Router
	asyncs []*source.Async
}

// NewSources builds the byte sources described by settings. Background
// fetches run under ctx until Close is called.
func NewSources(ctx context.Context, settings SourcesSettings) (*Sources, error) {
	s := &Sources{Router: source.NewRouter()}

	add := func(f source.Fetcher, schemes ...string) {
		a := source.NewAsync(ctx, f, settings.MaxInFlight)
		s.asyncs = append(s.asyncs, a)
		s.Router.Handle(a, schemes...)
	}

	root := settings.FileRoot
	if root == "" {
		root = "/"
	}
	add(source.NewFile(osfs.New(root)), "file")

	add(source.NewHTTP(source.HTTPConfig{
		RetryMax: settings.HTTP.RetryMax,
		Timeout:  settings.HTTP.Timeout,
		MaxBytes: settings.HTTP.MaxBytes,
	}), "http", "https")

	if cfg := settings.S3; cfg != nil {
		s3, err := source.NewS3(source.S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
		})
		if err != nil {
			_ = s.Close()
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create s3 source")
		}
		add(s3, "s3")
	}

	if cfg := settings.Git; cfg != nil {
		g, err := source.OpenGit(osfs.New(cfg.Path))
		if err != nil {
			_ = s.Close()
			return nil, errors.WithContext(err, "path", cfg.Path)
		}
		add(g, source.GitScheme)
	}

	return s, nil
}

// Close stops all background fetches.
func (s *Sources) Close() error {
	for _, a := range s.asyncs {
		_ = a.Close()
	}
	return nil
}
