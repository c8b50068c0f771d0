package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/cloudimg/internal/image"
)

//go:embed default.yaml
var defaultRegistry []byte

// Known releases, vendors and architectures.
type Registry struct {
	releases map[string]image.Release
	vendors  map[string]image.Vendor
	archs    map[string]image.Arch
}

// On-disk form of a registry.
type document struct {
	Releases map[string]releaseEntry `yaml:"releases"`
	Vendors  map[string]vendorEntry  `yaml:"vendors"`
	Archs    map[string]archEntry    `yaml:"archs"`
}

type releaseEntry struct {
	Basename                    string   `yaml:"basename"`
	ID                          string   `yaml:"id"`
	BaseID                      string   `yaml:"baseid"`
	FAIClasses                  []string `yaml:"fai_classes"`
	ArchSupportsLinuxImageCloud []string `yaml:"arch_supports_linux_image_cloud"`
}

type vendorEntry struct {
	FAIClasses         []string `yaml:"fai_classes"`
	Size               int      `yaml:"size"`
	UseLinuxImageCloud bool     `yaml:"use_linux_image_cloud"`
}

type archEntry struct {
	FAIClasses []string `yaml:"fai_classes"`
}

// Returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// Reads a registry from a YAML file.
//
// An empty path selects the default registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Decodes a registry from YAML.
//
// Unknown fields are rejected. A release name defaults its basename, and
// a missing base id defaults to the id.
func Parse(data []byte) (*Registry, error) {
	var doc document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}

	reg := &Registry{
		releases: make(map[string]image.Release, len(doc.Releases)),
		vendors:  make(map[string]image.Vendor, len(doc.Vendors)),
		archs:    make(map[string]image.Arch, len(doc.Archs)),
	}

	for name, e := range doc.Releases {
		if err := checkClasses("release", name, e.FAIClasses); err != nil {
			return nil, err
		}
		rel := image.Release{
			Name:                        name,
			Basename:                    e.Basename,
			ID:                          e.ID,
			BaseID:                      e.BaseID,
			Classes:                     e.FAIClasses,
			ArchSupportsLinuxImageCloud: e.ArchSupportsLinuxImageCloud,
		}
		if rel.Basename == "" {
			rel.Basename = name
		}
		if rel.BaseID == "" {
			rel.BaseID = rel.ID
		}
		reg.releases[name] = rel
	}

	for name, e := range doc.Vendors {
		if e.Size <= 0 {
			return nil, fmt.Errorf("%w: vendor %s: size must be positive", ErrRegistry, name)
		}
		if err := checkClasses("vendor", name, e.FAIClasses); err != nil {
			return nil, err
		}
		reg.vendors[name] = image.Vendor{
			Name:               name,
			Classes:            e.FAIClasses,
			Size:               e.Size,
			UseLinuxImageCloud: e.UseLinuxImageCloud,
		}
	}

	for name, e := range doc.Archs {
		if err := checkClasses("arch", name, e.FAIClasses); err != nil {
			return nil, err
		}
		reg.archs[name] = image.Arch{
			Name:    name,
			Classes: e.FAIClasses,
		}
	}

	return reg, nil
}

// Rejects classes the resolver places itself.
func checkClasses(dimension, name string, classes []string) error {
	for _, c := range classes {
		if image.IsReservedClass(c) {
			return fmt.Errorf("%w: %s %s: class %s is reserved", ErrRegistry, dimension, name, c)
		}
	}
	return nil
}

// Returns the named release.
func (r *Registry) Release(name string) (image.Release, error) {
	return lookup(r.releases, "release", name)
}

// Returns the named vendor.
func (r *Registry) Vendor(name string) (image.Vendor, error) {
	return lookup(r.vendors, "vendor", name)
}

// Returns the named architecture.
func (r *Registry) Arch(name string) (image.Arch, error) {
	return lookup(r.archs, "arch", name)
}

// Returns the sorted release names.
func (r *Registry) Releases() []string {
	return slices.Sorted(maps.Keys(r.releases))
}

// Returns the sorted vendor names.
func (r *Registry) Vendors() []string {
	return slices.Sorted(maps.Keys(r.vendors))
}

// Returns the sorted architecture names.
func (r *Registry) Archs() []string {
	return slices.Sorted(maps.Keys(r.archs))
}

func lookup[T any](m map[string]T, dimension, name string) (T, error) {
	v, ok := m[name]
	if !ok {
		var zero T
		return zero, &LookupError{
			Dimension: dimension,
			Name:      name,
			Valid:     slices.Sorted(maps.Keys(m)),
		}
	}
	return v, nil
}
