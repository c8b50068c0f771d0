package image

import (
	"log/slog"
	"maps"
	"slices"
)

// Classes the resolver adds on its own.
const (
	ClassDebian          = "DEBIAN"
	ClassCloud           = "CLOUD"
	ClassLinuxImageCloud = "LINUX_IMAGE_CLOUD"
	ClassLinuxImageBase  = "LINUX_IMAGE_BASE"
	ClassLocalDebs       = "LOCALDEBS"
	ClassLast            = "LAST"
)

// Classes whose position the resolver decides. Dimensions must not
// contribute them.
var reservedClasses = []string{
	ClassLinuxImageCloud,
	ClassLinuxImageBase,
	ClassLocalDebs,
	ClassLast,
}

// Returns the classes that only the resolver may place.
func ReservedClasses() []string {
	return slices.Clone(reservedClasses)
}

// Whether the class is placed by the resolver alone.
func IsReservedClass(class string) bool {
	return slices.Contains(reservedClasses, class)
}

// Environment variables set by the resolver.
const (
	EnvReleaseID           = "CLOUD_RELEASE_ID"
	EnvReleaseVersion      = "CLOUD_RELEASE_VERSION"
	EnvReleaseVersionAzure = "CLOUD_RELEASE_VERSION_AZURE"
)

// Metadata keys set by the resolver.
const (
	InfoType          = "type"
	InfoRelease       = "release"
	InfoReleaseID     = "release_id"
	InfoReleaseBaseID = "release_baseid"
	InfoVendor        = "vendor"
	InfoArch          = "arch"
	InfoBuildID       = "build_id"
	InfoVersion       = "version"
	InfoVersionAzure  = "version_azure"
)

// Vendor whose images carry the platform-specific version.
const azureVendor = "azure"

// Position of a [Resolver] in its call sequence.
type State int

const (
	StateEmpty State = iota
	StateTypeApplied
	StateReleaseApplied
	StateVendorApplied
	StateArchApplied
	StateVersionApplied
	StateFinalized
)

var stateNames = [...]string{
	StateEmpty:          "empty",
	StateTypeApplied:    "type applied",
	StateReleaseApplied: "release applied",
	StateVendorApplied:  "vendor applied",
	StateArchApplied:    "arch applied",
	StateVersionApplied: "version applied",
	StateFinalized:      "finalized",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Applies the dimensions of a build request in a fixed order.
//
// The call sequence is ApplyType, ApplyRelease, ApplyVendor, ApplyArch,
// ApplyVersion, optionally AddLocalDebs, then Finalize. Calling an operation
// out of sequence panics with a [*SequenceError]. Classes returned by
// [ReservedClasses] are placed by AddLocalDebs and Finalize only; the Apply
// operations skip them. A resolver serves a single
// build and is not safe for concurrent use.
type Resolver struct {
	state   State
	classes *ClassSet
	log     *slog.Logger
	env     map[string]string
	info    map[string]string

	buildType    BuildType
	release      Release
	vendor       Vendor
	arch         Arch
	buildID      BuildID
	version      string
	versionAzure string
}

// Creates a [Resolver] holding the base classes.
//
// Class mutations are recorded to log.
func NewResolver(log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Resolver{
		log:     log,
		classes: NewClassSet(log),
		env:     make(map[string]string),
		info:    make(map[string]string),
	}
	r.classes.Add(ClassDebian)
	r.classes.Add(ClassCloud)
	return r
}

// Returns the current state.
func (r *Resolver) State() State {
	return r.state
}

// Records the build type and adds its classes.
func (r *Resolver) ApplyType(t BuildType) {
	r.advance("ApplyType", StateEmpty)
	r.buildType = t
	r.info[InfoType] = t.Name
	r.contribute("build type", t.Classes)
}

// Records the release and adds its classes.
func (r *Resolver) ApplyRelease(rel Release) {
	r.advance("ApplyRelease", StateTypeApplied)
	r.release = rel
	r.info[InfoRelease] = rel.Basename
	r.info[InfoReleaseID] = rel.ID
	r.info[InfoReleaseBaseID] = rel.BaseID
	r.contribute("release", rel.Classes)
}

// Records the vendor and adds its classes.
func (r *Resolver) ApplyVendor(v Vendor) {
	r.advance("ApplyVendor", StateReleaseApplied)
	r.vendor = v
	r.info[InfoVendor] = v.Name
	r.env[EnvReleaseID] = v.Name
	r.contribute("vendor", v.Classes)
}

// Records the architecture and adds its classes.
func (r *Resolver) ApplyArch(a Arch) {
	r.advance("ApplyArch", StateVendorApplied)
	r.arch = a
	r.info[InfoArch] = a.Name
	r.contribute("arch", a.Classes)
}

// Computes the version strings from the build type's templates.
//
// The platform-specific version is exported only for the vendor that
// requires it. A rejected version leaves the resolver in its previous state.
func (r *Resolver) ApplyVersion(version int, date Date, id BuildID) error {
	r.expect("ApplyVersion", StateArchApplied)

	v, azure, err := RenderVersions(r.buildType, version, date)
	if err != nil {
		return err
	}

	r.state = StateVersionApplied
	r.buildID = id
	r.version = v
	r.versionAzure = azure

	r.info[InfoBuildID] = id.String()
	r.info[InfoVersion] = v
	r.env[EnvReleaseVersion] = v

	if r.vendor.Name == azureVendor {
		r.info[InfoVersionAzure] = azure
		r.env[EnvReleaseVersionAzure] = azure
	}

	return nil
}

// Adds the class that installs packages from a local directory.
//
// Only valid between ApplyVersion and Finalize.
func (r *Resolver) AddLocalDebs() {
	r.expect("AddLocalDebs", StateVersionApplied)
	r.classes.Add(ClassLocalDebs)
}

// Selects the image variant class, appends the terminal class and returns
// the resolved configuration.
//
// The cloud kernel variant is chosen when the release supports it on the
// architecture and the vendor opts into it. The resolver is read-only
// afterwards.
func (r *Resolver) Finalize() *Resolved {
	r.advance("Finalize", StateVersionApplied)

	if r.release.SupportsLinuxImageCloud(r.arch.Name) && r.vendor.UseLinuxImageCloud {
		r.classes.Add(ClassLinuxImageCloud)
	} else {
		r.classes.Add(ClassLinuxImageBase)
	}
	r.classes.Add(ClassLast)

	return &Resolved{
		Classes:      r.classes.List(),
		Env:          maps.Clone(r.env),
		Info:         maps.Clone(r.info),
		Type:         r.buildType.clone(),
		Release:      r.release.clone(),
		Vendor:       r.vendor.clone(),
		Arch:         r.arch.clone(),
		BuildID:      r.buildID,
		Version:      r.version,
		VersionAzure: r.versionAzure,
	}
}

// Adds the classes a dimension contributes, skipping reserved ones.
func (r *Resolver) contribute(dimension string, classes []string) {
	for _, c := range classes {
		if IsReservedClass(c) {
			r.log.Warn("ignoring reserved class", "dimension", dimension, "class", c)
			continue
		}
		r.classes.Add(c)
	}
}

// Panics unless the resolver is in the expected state.
func (r *Resolver) expect(op string, want State) {
	if r.state != want {
		panic(&SequenceError{Op: op, State: r.state})
	}
}

// Checks the expected state and moves to the next one.
func (r *Resolver) advance(op string, want State) {
	r.expect(op, want)
	r.state = want + 1
}
