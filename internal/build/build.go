package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/cloudimg/internal/image"
	"github.com/cruciblehq/cloudimg/internal/paths"
	"github.com/cruciblehq/cloudimg/internal/runtime"
)

// Controls a build.
type Options struct {
	Resolved *image.Resolved // Finalized configuration.
	Name     string          // Output name, used for every output file.
	Output   string          // Directory for images and manifests.
	DataDir  string          // Build data directory, exported to the builder.
	FAI      FAIOptions      // How to invoke the image builder.
	Runner   runtime.Runner  // Runs or prints external commands.
}

// Returned after a successful build.
type Result struct {
	Image     string               // Raw disk image.
	Archive   string               // Tar archive of the disk image.
	Manifest  string               // Final build manifest.
	Artifacts []ocispec.Descriptor // Digests of packaged artifacts. Empty for noop builds.
}

// Runs the builder, packaging and manifest steps in order.
//
// The output directory is created first and resolved to an absolute path,
// which is what the builder sees in its environment.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	output, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	env, err := opts.Resolved.Environ(opts.Name, output, opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	p := newPipeline(opts, output, env)

	slog.Info("building image",
		"name", opts.Name,
		"output", output,
		"classes", len(opts.Resolved.Classes),
		"live", opts.Runner.Live(),
	)

	return p.run(ctx)
}
