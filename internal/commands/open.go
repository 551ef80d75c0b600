// Package commands contains the operations behind the CLI and the HTTP API. They work on a resx.Reader in
// node mode and leave presentation to the callers.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal/config"
	"github.com/wot-oss/resx/internal/resx"
	"github.com/wot-oss/resx/internal/sources"
	"github.com/wot-oss/resx/internal/types"
	"github.com/wot-oss/resx/internal/utils"
)

var ErrInvalidArgs = errors.New("invalid arguments")

// OpenOptions configures how a container is opened
type OpenOptions struct {
	// BasePath is the directory relative file references are resolved against. Empty means the directory of
	// the container
	BasePath string
	// Candidates are the display names of assemblies searched for type names without assembly
	Candidates []string
	S3         sources.S3Options
}

// OptionsFromConfig returns the open options set in the configuration file or the environment
func OptionsFromConfig() OpenOptions {
	return OpenOptions{
		BasePath:   viper.GetString(config.KeyBasePath),
		Candidates: viper.GetStringSlice(config.KeyCandidates),
		S3: sources.S3Options{
			Region:          viper.GetString(config.KeyS3Region),
			Endpoint:        viper.GetString(config.KeyS3Endpoint),
			AccessKeyId:     viper.GetString(config.KeyS3AccessKeyId),
			SecretAccessKey: viper.GetString(config.KeyS3SecretAccessKey),
		},
	}
}

// Open returns a node mode reader for the container at loc, which is a local path, an http(s) URL or an
// s3://bucket/key URL. Referenced files are opened from the same source as the container.
func Open(ctx context.Context, loc string, opts OpenOptions) (*resx.Reader, error) {
	var ids []types.Identity
	for _, c := range opts.Candidates {
		id, err := types.ParseIdentity(c)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate assembly: %w", ErrInvalidArgs, err)
		}
		ids = append(ids, id)
	}

	src, name, err := sources.Parse(ctx, loc, sources.Options{S3: opts.S3})
	if err != nil {
		return nil, err
	}
	utils.GetLogger(ctx, "commands.Open").Debug("opening container", "root", src.Root(), "name", name)

	ropts := []resx.ReaderOption{resx.WithNodes(true)}
	if len(ids) > 0 {
		ropts = append(ropts, resx.WithCandidates(ids...))
	}
	if opts.BasePath != "" {
		bp, err := utils.ExpandHome(opts.BasePath)
		if err != nil {
			return nil, err
		}
		ropts = append(ropts, resx.WithBasePath(bp))
	}
	return resx.FromSource(ctx, src, name, ropts...), nil
}
