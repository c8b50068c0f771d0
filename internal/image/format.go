package image

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// Placeholder names recognized in name and version templates.
const (
	PlaceholderRelease   = "release"
	PlaceholderVendor    = "vendor"
	PlaceholderArch      = "arch"
	PlaceholderBuildType = "build_type"
	PlaceholderBuildID   = "build_id"
	PlaceholderVersion   = "version"
	PlaceholderDate      = "date"
)

// All recognized placeholders.
var Placeholders = []string{
	PlaceholderRelease,
	PlaceholderVendor,
	PlaceholderArch,
	PlaceholderBuildType,
	PlaceholderBuildID,
	PlaceholderVersion,
	PlaceholderDate,
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// Substitutes {name} placeholders in tmpl with values from vars.
//
// Text outside placeholders is copied verbatim. A placeholder outside
// [Placeholders] fails with [ErrUnknownPlaceholder]; a recognized one
// without a value in vars fails with [ErrMissingValue].
func Render(tmpl string, vars map[string]string) (string, error) {
	var err error
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		if err != nil {
			return m
		}
		name := m[1 : len(m)-1]
		if !slices.Contains(Placeholders, name) {
			err = fmt.Errorf("%w %q in %q", ErrUnknownPlaceholder, m, tmpl)
			return m
		}
		v, ok := vars[name]
		if !ok {
			err = fmt.Errorf("%w: %s in %q", ErrMissingValue, m, tmpl)
			return m
		}
		return v
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// Renders the version string and the platform-specific version string of
// a build type.
//
// The version is rendered in decimal without leading zeros and the date as
// YYYYMMDD.
func RenderVersions(t BuildType, version int, date Date) (string, string, error) {
	if version < 0 {
		return "", "", &ValidationError{
			Field:  "version",
			Value:  strconv.Itoa(version),
			Reason: "must not be negative",
		}
	}

	vars := map[string]string{
		PlaceholderVersion: strconv.Itoa(version),
		PlaceholderDate:    date.Compact(),
	}

	v, err := Render(t.VersionTemplate, vars)
	if err != nil {
		return "", "", err
	}

	azure, err := Render(t.AzureTemplate, vars)
	if err != nil {
		return "", "", err
	}

	return v, azure, nil
}

// Inputs to [RenderName].
type NameParams struct {
	BuildType string
	Release   string
	Vendor    string
	Arch      string
	Version   string // Rendered version string, not the raw number.
	BuildID   string
}

// Renders an output name from tmpl.
//
// A non-empty override bypasses the template and is returned verbatim.
func RenderName(tmpl, override string, p NameParams) (string, error) {
	if override != "" {
		return override, nil
	}
	return Render(tmpl, map[string]string{
		PlaceholderBuildType: p.BuildType,
		PlaceholderRelease:   p.Release,
		PlaceholderVendor:    p.Vendor,
		PlaceholderArch:      p.Arch,
		PlaceholderVersion:   p.Version,
		PlaceholderBuildID:   p.BuildID,
	})
}
