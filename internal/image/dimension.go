package image

import "slices"

// A Debian release that images can be built for.
type Release struct {
	Name                        string   // Name used in output names.
	Basename                    string   // Codename recorded in metadata.
	ID                          string   // Release identifier.
	BaseID                      string   // Identifier of the release this one derives from.
	Classes                     []string // Classes contributed by the release.
	ArchSupportsLinuxImageCloud []string // Architectures with a cloud kernel.
}

// Whether the release ships a cloud kernel for the named architecture.
func (r Release) SupportsLinuxImageCloud(arch string) bool {
	return slices.Contains(r.ArchSupportsLinuxImageCloud, arch)
}

func (r Release) clone() Release {
	r.Classes = slices.Clone(r.Classes)
	r.ArchSupportsLinuxImageCloud = slices.Clone(r.ArchSupportsLinuxImageCloud)
	return r
}

// A cloud platform images are built for.
type Vendor struct {
	Name               string   // Platform name.
	Classes            []string // Classes contributed by the vendor.
	Size               int      // Disk image size in GB.
	UseLinuxImageCloud bool     // Whether the cloud kernel is used when available.
}

func (v Vendor) clone() Vendor {
	v.Classes = slices.Clone(v.Classes)
	return v
}

// A target architecture or sub-architecture.
type Arch struct {
	Name    string   // Architecture name.
	Classes []string // Classes contributed by the architecture.
}

func (a Arch) clone() Arch {
	a.Classes = slices.Clone(a.Classes)
	return a
}
