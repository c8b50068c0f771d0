package build

import (
	"context"
	"fmt"
	"path/filepath"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/cloudimg/internal/runtime"
)

// Output file suffixes, appended to the output name.
const (
	suffixImage       = ".raw"
	suffixArchive     = ".tar"
	suffixFAIManifest = ".build-fai.json"
	suffixManifest    = ".build.json"
)

// Holds the steps of one build.
type pipeline struct {
	builder  *Builder
	packager *Packager
	manifest *Manifest
	runner   runtime.Runner
	result   *Result
}

// Creates a [pipeline] writing into the absolute output directory.
func newPipeline(opts Options, output string, env map[string]string) *pipeline {
	file := func(suffix string) string {
		return filepath.Join(output, opts.Name+suffix)
	}

	r := opts.Resolved

	return &pipeline{
		builder: &Builder{
			Output:  file(suffixImage),
			Dir:     output,
			Classes: r.Classes,
			SizeGB:  r.Vendor.Size,
			Env:     env,
			FAI:     opts.FAI.withDefaults(opts.DataDir),
		},
		packager: &Packager{
			Input:  file(suffixImage),
			Output: file(suffixArchive),
		},
		manifest: &Manifest{
			Input:  file(suffixFAIManifest),
			Output: file(suffixManifest),
			Info:   r.Info,
		},
		runner: opts.Runner,
		result: &Result{
			Image:    file(suffixImage),
			Archive:  file(suffixArchive),
			Manifest: file(suffixManifest),
		},
	}
}

// Runs the steps in order, stopping at the first failure.
func (p *pipeline) run(ctx context.Context) (*Result, error) {
	if err := p.builder.Run(ctx, p.runner); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuilder, err)
	}

	desc, err := p.packager.Run(ctx, p.runner.Live())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}

	var artifacts []ocispec.Descriptor
	if desc != nil {
		artifacts = append(artifacts, *desc)
	}

	if err := p.manifest.Run(ctx, p.runner.Live(), artifacts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	p.result.Artifacts = artifacts
	return p.result, nil
}
