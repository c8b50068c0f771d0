package image

import (
	"encoding/json"
	"maps"
	"slices"
)

// Environment variables describing the build output, added at handoff.
const (
	EnvBuildInfo      = "CLOUD_BUILD_INFO"
	EnvBuildName      = "CLOUD_BUILD_NAME"
	EnvBuildOutputDir = "CLOUD_BUILD_OUTPUT_DIR"
	EnvBuildData      = "CLOUD_BUILD_DATA"
)

// The outcome of a finalized [Resolver].
//
// The caller owns it exclusively; the resolver keeps no reference to its
// slices or maps.
type Resolved struct {
	Classes      []string          // Build classes in builder order.
	Env          map[string]string // Environment set by the dimensions.
	Info         map[string]string // Metadata record of the build.
	Type         BuildType
	Release      Release
	Vendor       Vendor
	Arch         Arch
	BuildID      BuildID
	Version      string // Rendered version.
	VersionAzure string // Rendered platform-specific version.
}

// Returns the output name.
//
// A non-empty override is used verbatim. Otherwise the name is rendered
// from the build type's name template.
func (r *Resolved) Name(override string) (string, error) {
	return RenderName(r.Type.NameTemplate, override, NameParams{
		BuildType: r.Type.Name,
		Release:   r.Release.Name,
		Vendor:    r.Vendor.Name,
		Arch:      r.Arch.Name,
		Version:   r.Version,
		BuildID:   r.BuildID.String(),
	})
}

// Returns the metadata record encoded as JSON.
func (r *Resolved) InfoJSON() (string, error) {
	b, err := json.Marshal(r.Info)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Returns the environment handed to the builder.
//
// The dimension environment is extended with the encoded metadata, the
// output name, the output directory and the data directory.
func (r *Resolved) Environ(name, outputDir, dataDir string) (map[string]string, error) {
	info, err := r.InfoJSON()
	if err != nil {
		return nil, err
	}

	env := maps.Clone(r.Env)
	env[EnvBuildInfo] = info
	env[EnvBuildName] = name
	env[EnvBuildOutputDir] = outputDir
	env[EnvBuildData] = dataDir
	return env, nil
}

// Whether the class list contains class.
func (r *Resolved) HasClass(class string) bool {
	return slices.Contains(r.Classes, class)
}
