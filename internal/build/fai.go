package build

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/cruciblehq/cloudimg/internal/paths"
	"github.com/cruciblehq/cloudimg/internal/runtime"
)

const (

	// Default image builder executable.
	DefaultFAICommand = "fai-diskimage"

	// Hostname baked into every image.
	imageHostname = "debian"
)

// Controls how the image builder is invoked.
type FAIOptions struct {
	Command     string // Builder executable. Empty uses [DefaultFAICommand].
	Sudo        bool   // Run the builder through sudo, preserving the build environment.
	ConfigSpace string // FAI config space. Empty uses the one in the data directory.
}

// Fills in defaults for unset fields.
func (o FAIOptions) withDefaults(dataDir string) FAIOptions {
	if o.Command == "" {
		o.Command = DefaultFAICommand
	}
	if o.ConfigSpace == "" {
		o.ConfigSpace = paths.ConfigSpace(dataDir)
	}
	return o
}

// Builds a raw disk image with FAI.
//
// FAI runs the customization of each class in list order.
type Builder struct {
	Output  string            // Raw image to write.
	Dir     string            // Working directory, where FAI leaves its side files.
	Classes []string          // Build classes, in order.
	SizeGB  int               // Disk size in GB.
	Env     map[string]string // Environment exported to the builder.
	FAI     FAIOptions
}

// Runs the image builder.
func (b *Builder) Run(ctx context.Context, rt runtime.Runner) error {
	slog.Info("running image builder",
		"output", b.Output,
		"size", b.SizeGB,
		"classes", strings.Join(b.Classes, ","),
	)

	return rt.Run(ctx, runtime.Command{
		Args: b.args(),
		Env:  b.Env,
		Dir:  b.Dir,
	})
}

// Returns the builder's argument vector.
func (b *Builder) args() []string {
	var args []string

	if b.FAI.Sudo {
		keys := slices.Sorted(maps.Keys(b.Env))
		args = append(args, "sudo", "--preserve-env="+strings.Join(keys, ","))
	}

	return append(args,
		b.FAI.Command,
		"--verbose",
		"--hostname", imageHostname,
		"--class", strings.Join(b.Classes, ","),
		"--size", fmt.Sprintf("%dG", b.SizeGB),
		"--cspace", b.FAI.ConfigSpace,
		b.Output,
	)
}
