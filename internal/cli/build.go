package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cruciblehq/cloudimg/internal"
	"github.com/cruciblehq/cloudimg/internal/build"
	"github.com/cruciblehq/cloudimg/internal/image"
	"github.com/cruciblehq/cloudimg/internal/registry"
	"github.com/cruciblehq/cloudimg/internal/runtime"
)

// Represents the 'cloudimg build' command.
type BuildCmd struct {
	Release      string        `arg:"" help:"Debian release to build." placeholder:"RELEASE"`
	Vendor       string        `arg:"" help:"Vendor to build image for." placeholder:"VENDOR"`
	Arch         string        `arg:"" help:"Architecture or sub-architecture to build image for." placeholder:"ARCH"`
	BuildID      image.BuildID `name:"build-id" required:"" help:"Identifier of this build." placeholder:"ID"`
	BuildType    string        `name:"build-type" enum:"dev,official" default:"dev" help:"Type of image to build (${enum})." placeholder:"TYPE"`
	Noop         bool          `help:"Print the commands which would be executed, but do not run them."`
	Localdebs    bool          `help:"Read extra debs from localdebs directory."`
	Output       string        `default:"." type:"path" help:"Write manifests and images to DIR." placeholder:"DIR"`
	OverrideName string        `name:"override-name" help:"Override name of output." placeholder:"NAME"`
	Version      int           `required:"" env:"CI_PIPELINE_IID" help:"Version of image." placeholder:"VERSION"`
	VersionDate  image.Date    `name:"version-date" help:"Date part of version (default: today)." placeholder:"YYYY-MM-DD"`
}

// Executes the build command.
//
// All inputs are resolved before any external command runs, so a bad
// dimension name or version fails without side effects.
func (c *BuildCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings(RootCmd.Config)
	if err != nil {
		return err
	}

	reg, err := registry.Load(settings.Registry)
	if err != nil {
		return err
	}

	resolved, name, err := c.resolve(reg, time.Now())
	if err != nil {
		return err
	}

	slog.Debug("resolved build",
		"name", name,
		"classes", resolved.Classes,
		"version", resolved.Version,
	)

	var rt runtime.Runner = runtime.NewHost(os.Stdout, os.Stderr)
	if c.Noop {
		rt = runtime.NewNoop(os.Stdout)
	}

	result, err := build.Run(ctx, build.Options{
		Resolved: resolved,
		Name:     name,
		Output:   c.Output,
		DataDir:  settings.DataDir,
		FAI:      settings.FAI.Options(),
		Runner:   rt,
	})
	if err != nil {
		return err
	}

	slog.Info("build complete", "image", result.Image, "manifest", result.Manifest)
	return nil
}

// Looks up the dimensions and runs them through a resolver.
//
// Returns the finalized configuration and the output name. The version date
// defaults to the date of now.
func (c *BuildCmd) resolve(reg *registry.Registry, now time.Time) (*image.Resolved, string, error) {
	arch, err := reg.Arch(c.Arch)
	if err != nil {
		return nil, "", err
	}

	vendor, err := reg.Vendor(c.Vendor)
	if err != nil {
		return nil, "", err
	}

	release, err := reg.Release(c.Release)
	if err != nil {
		return nil, "", err
	}

	buildType, err := image.ParseBuildType(c.BuildType)
	if err != nil {
		return nil, "", err
	}

	date := c.VersionDate
	if date.IsZero() {
		date = image.DateOf(now)
	}

	r := image.NewResolver(slog.Default())
	r.ApplyType(buildType)
	r.ApplyRelease(release)
	r.ApplyVendor(vendor)
	r.ApplyArch(arch)
	if err := r.ApplyVersion(c.Version, date, c.BuildID); err != nil {
		return nil, "", err
	}
	if c.Localdebs {
		r.AddLocalDebs()
	}

	resolved := r.Finalize()

	name, err := resolved.Name(c.OverrideName)
	if err != nil {
		return nil, "", err
	}

	return resolved, name, nil
}
