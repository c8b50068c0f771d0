package image

import "slices"

// Describes one kind of build.
//
// Templates accept the placeholders listed in [Placeholders]. The version
// templates only use {version} and {date}.
type BuildType struct {
	Name            string   // Type name, as given on the command line.
	Classes         []string // Classes contributed unconditionally.
	NameTemplate    string   // Template for the output name.
	VersionTemplate string   // Template for the version string.
	AzureTemplate   string   // Template for the platform-specific version string.
}

var (

	// Development builds, identified by build id and pipeline number.
	dev = BuildType{
		Name:            "dev",
		Classes:         []string{"TYPE_DEV"},
		NameTemplate:    "debian-{release}-{vendor}-{arch}-{build_type}-{build_id}-{version}",
		VersionTemplate: "{version}",
		AzureTemplate:   "0.0.{version}",
	}

	// Release builds, identified by date and pipeline number.
	official = BuildType{
		Name:            "official",
		NameTemplate:    "debian-{release}-{vendor}-{arch}-{build_type}-{version}",
		VersionTemplate: "{date}-{version}",
		AzureTemplate:   "0.{date}.{version}",
	}
)

// Known build types, in command line order.
var buildTypes = []BuildType{dev, official}

// Returns the names of all known build types.
func BuildTypeNames() []string {
	names := make([]string, 0, len(buildTypes))
	for _, t := range buildTypes {
		names = append(names, t.Name)
	}
	return names
}

// Returns a copy of the build type with the given name.
func ParseBuildType(s string) (BuildType, error) {
	for _, t := range buildTypes {
		if t.Name == s {
			return t.clone(), nil
		}
	}
	return BuildType{}, &ValidationError{
		Field:  "build type",
		Value:  s,
		Reason: "expected one of " + joinNames(BuildTypeNames()),
	}
}

func (t BuildType) clone() BuildType {
	t.Classes = slices.Clone(t.Classes)
	return t
}
