package image

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/containerd/errdefs"
)

var (
	testBookworm = Release{
		Name:                        "bookworm",
		Basename:                    "bookworm",
		ID:                          "12",
		BaseID:                      "12",
		Classes:                     []string{"BOOKWORM"},
		ArchSupportsLinuxImageCloud: []string{"amd64", "arm64"},
	}
	testAzure = Vendor{
		Name:               "azure",
		Classes:            []string{"AZURE"},
		Size:               30,
		UseLinuxImageCloud: true,
	}
	testGeneric = Vendor{
		Name:    "generic",
		Classes: []string{"GENERIC"},
		Size:    2,
	}
	testAmd64 = Arch{Name: "amd64", Classes: []string{"AMD64", "GRUB_CLOUD_AMD64"}}
	testI386  = Arch{Name: "i386", Classes: []string{"I386"}}
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func resolve(t *testing.T, bt BuildType, rel Release, v Vendor, a Arch, localdebs bool) *Resolved {
	t.Helper()
	r := NewResolver(nil)
	r.ApplyType(bt)
	r.ApplyRelease(rel)
	r.ApplyVendor(v)
	r.ApplyArch(a)
	if err := r.ApplyVersion(42, mustDate(t, "2024-05-01"), "test-1"); err != nil {
		t.Fatalf("ApplyVersion: %v", err)
	}
	if localdebs {
		r.AddLocalDebs()
	}
	return r.Finalize()
}

func TestResolveOfficialAzure(t *testing.T) {
	res := resolve(t, official, testBookworm, testAzure, testAmd64, false)

	if res.Version != "20240501-42" {
		t.Fatalf("Version = %q, want 20240501-42", res.Version)
	}
	if res.VersionAzure != "0.20240501.42" {
		t.Fatalf("VersionAzure = %q, want 0.20240501.42", res.VersionAzure)
	}

	name, err := res.Name("")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "debian-bookworm-azure-amd64-official-20240501-42" {
		t.Fatalf("name = %q", name)
	}

	want := []string{"DEBIAN", "CLOUD", "BOOKWORM", "AZURE", "AMD64", "GRUB_CLOUD_AMD64", "LINUX_IMAGE_CLOUD", "LAST"}
	if !slices.Equal(res.Classes, want) {
		t.Fatalf("Classes = %v, want %v", res.Classes, want)
	}
	if res.HasClass(ClassLinuxImageBase) {
		t.Fatal("baseline variant present alongside cloud variant")
	}

	if res.Env[EnvReleaseID] != "azure" {
		t.Fatalf("env[%s] = %q, want azure", EnvReleaseID, res.Env[EnvReleaseID])
	}
	if res.Env[EnvReleaseVersion] != "20240501-42" {
		t.Fatalf("env[%s] = %q", EnvReleaseVersion, res.Env[EnvReleaseVersion])
	}
	if res.Env[EnvReleaseVersionAzure] != "0.20240501.42" {
		t.Fatalf("env[%s] = %q", EnvReleaseVersionAzure, res.Env[EnvReleaseVersionAzure])
	}

	wantInfo := map[string]string{
		"type":           "official",
		"release":        "bookworm",
		"release_id":     "12",
		"release_baseid": "12",
		"vendor":         "azure",
		"arch":           "amd64",
		"build_id":       "test-1",
		"version":        "20240501-42",
		"version_azure":  "0.20240501.42",
	}
	for k, v := range wantInfo {
		if res.Info[k] != v {
			t.Errorf("info[%s] = %q, want %q", k, res.Info[k], v)
		}
	}
	if len(res.Info) != len(wantInfo) {
		t.Errorf("info = %v, want %d keys", res.Info, len(wantInfo))
	}
}

func TestResolveDev(t *testing.T) {
	res := resolve(t, dev, testBookworm, testGeneric, testAmd64, false)

	if res.Version != "42" {
		t.Fatalf("Version = %q, want 42", res.Version)
	}
	if res.VersionAzure != "0.0.42" {
		t.Fatalf("VersionAzure = %q, want 0.0.42", res.VersionAzure)
	}

	name, err := res.Name("")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "debian-bookworm-generic-amd64-dev-test-1-42" {
		t.Fatalf("name = %q", name)
	}

	if res.Classes[2] != "TYPE_DEV" {
		t.Fatalf("Classes = %v, want TYPE_DEV after the base classes", res.Classes)
	}
	if _, ok := res.Env[EnvReleaseVersionAzure]; ok {
		t.Fatal("platform-specific version exported for non-azure vendor")
	}
	if _, ok := res.Info[InfoVersionAzure]; ok {
		t.Fatal("platform-specific version recorded for non-azure vendor")
	}
}

func TestResolveImageVariant(t *testing.T) {
	optOut := testAzure
	optOut.UseLinuxImageCloud = false

	tests := []struct {
		name   string
		vendor Vendor
		arch   Arch
		cloud  bool
	}{
		{name: "supported and enabled", vendor: testAzure, arch: testAmd64, cloud: true},
		{name: "unsupported arch", vendor: testAzure, arch: testI386},
		{name: "vendor opts out", vendor: optOut, arch: testAmd64},
		{name: "neither", vendor: testGeneric, arch: testI386},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolve(t, dev, testBookworm, tt.vendor, tt.arch, false)

			cloud := res.HasClass(ClassLinuxImageCloud)
			base := res.HasClass(ClassLinuxImageBase)
			if cloud == base {
				t.Fatalf("cloud = %v, base = %v, want exactly one", cloud, base)
			}
			if cloud != tt.cloud {
				t.Fatalf("cloud = %v, want %v", cloud, tt.cloud)
			}
		})
	}
}

func TestResolveBaseAndTerminalClasses(t *testing.T) {
	for _, bt := range []BuildType{dev, official} {
		for _, localdebs := range []bool{false, true} {
			res := resolve(t, bt, testBookworm, testAzure, testAmd64, localdebs)
			if !slices.Equal(res.Classes[:2], []string{ClassDebian, ClassCloud}) {
				t.Fatalf("%s: Classes = %v, want DEBIAN CLOUD first", bt.Name, res.Classes)
			}
			if res.Classes[len(res.Classes)-1] != ClassLast {
				t.Fatalf("%s: Classes = %v, want LAST last", bt.Name, res.Classes)
			}
			n := 0
			for _, c := range res.Classes {
				if c == ClassLast {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("%s: LAST appears %d times", bt.Name, n)
			}
		}
	}
}

func TestResolveLocalDebs(t *testing.T) {
	without := resolve(t, official, testBookworm, testAzure, testAmd64, false)
	with := resolve(t, official, testBookworm, testAzure, testAmd64, true)

	if len(with.Classes) != len(without.Classes)+1 {
		t.Fatalf("len = %d, want %d", len(with.Classes), len(without.Classes)+1)
	}
	i := slices.Index(with.Classes, ClassLocalDebs)
	if i < 0 {
		t.Fatalf("Classes = %v, missing LOCALDEBS", with.Classes)
	}
	if i >= slices.Index(with.Classes, ClassLast) {
		t.Fatalf("LOCALDEBS at %d is not before LAST: %v", i, with.Classes)
	}
	if slices.Contains(without.Classes, ClassLocalDebs) {
		t.Fatal("LOCALDEBS present without being requested")
	}
}

func TestResolveDeduplicatesContributions(t *testing.T) {
	rel := testBookworm
	rel.Classes = []string{"CLOUD", "BOOKWORM"}
	a := testAmd64
	a.Classes = []string{"BOOKWORM", "AMD64"}

	res := resolve(t, dev, rel, testGeneric, a, false)
	want := []string{"DEBIAN", "CLOUD", "TYPE_DEV", "BOOKWORM", "GENERIC", "AMD64", "LINUX_IMAGE_BASE", "LAST"}
	if !slices.Equal(res.Classes, want) {
		t.Fatalf("Classes = %v, want %v", res.Classes, want)
	}
}

func TestIsReservedClass(t *testing.T) {
	for _, c := range ReservedClasses() {
		if !IsReservedClass(c) {
			t.Fatalf("IsReservedClass(%q) = false", c)
		}
	}
	for _, c := range []string{ClassDebian, ClassCloud, "TYPE_DEV", "AMD64"} {
		if IsReservedClass(c) {
			t.Fatalf("IsReservedClass(%q) = true", c)
		}
	}
}

func TestResolveSkipsReservedContributions(t *testing.T) {
	rel := testBookworm
	rel.Classes = []string{ClassLast, "BOOKWORM"}
	v := testAzure
	v.Classes = []string{ClassLinuxImageBase, ClassLocalDebs, "AZURE"}

	tests := []struct {
		name      string
		localdebs bool
		want      []string
	}{
		{
			name: "without localdebs",
			want: []string{"DEBIAN", "CLOUD", "TYPE_DEV", "BOOKWORM", "AZURE", "AMD64", "GRUB_CLOUD_AMD64", "LINUX_IMAGE_CLOUD", "LAST"},
		},
		{
			name:      "with localdebs",
			localdebs: true,
			want:      []string{"DEBIAN", "CLOUD", "TYPE_DEV", "BOOKWORM", "AZURE", "AMD64", "GRUB_CLOUD_AMD64", "LOCALDEBS", "LINUX_IMAGE_CLOUD", "LAST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolve(t, dev, rel, v, testAmd64, tt.localdebs)
			if !slices.Equal(res.Classes, tt.want) {
				t.Fatalf("Classes = %v, want %v", res.Classes, tt.want)
			}
		})
	}
}

func TestResolveReservedContributionInvariants(t *testing.T) {
	tests := []struct {
		name string
		rel  []string
		v    []string
		a    []string
	}{
		{name: "release LAST", rel: []string{ClassLast}},
		{name: "vendor base variant", v: []string{ClassLinuxImageBase}},
		{name: "arch cloud variant", a: []string{ClassLinuxImageCloud}},
		{name: "vendor LOCALDEBS", v: []string{ClassLocalDebs}},
		{name: "all", rel: []string{ClassLinuxImageCloud, ClassLast}, v: []string{ClassLocalDebs, ClassLinuxImageBase}, a: []string{ClassLast}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := testBookworm
			rel.Classes = append(slices.Clone(rel.Classes), tt.rel...)
			v := testAzure
			v.Classes = append(slices.Clone(v.Classes), tt.v...)
			a := testAmd64
			a.Classes = append(slices.Clone(a.Classes), tt.a...)

			without := resolve(t, official, rel, v, a, false)
			with := resolve(t, official, rel, v, a, true)

			for _, res := range []*Resolved{without, with} {
				if res.Classes[len(res.Classes)-1] != ClassLast {
					t.Fatalf("Classes = %v, want LAST last", res.Classes)
				}
				if slices.Contains(res.Classes, ClassLinuxImageBase) {
					t.Fatalf("Classes = %v, want only the cloud variant", res.Classes)
				}
				if !slices.Contains(res.Classes, ClassLinuxImageCloud) {
					t.Fatalf("Classes = %v, missing the cloud variant", res.Classes)
				}
			}

			if slices.Contains(without.Classes, ClassLocalDebs) {
				t.Fatalf("Classes = %v, LOCALDEBS present without being requested", without.Classes)
			}
			if len(with.Classes) != len(without.Classes)+1 {
				t.Fatalf("len = %d, want %d", len(with.Classes), len(without.Classes)+1)
			}
			i := slices.Index(with.Classes, ClassLocalDebs)
			if i < 0 || i >= len(with.Classes)-1 {
				t.Fatalf("LOCALDEBS at %d in %v, want before LAST", i, with.Classes)
			}
		})
	}
}

func TestResolverSequence(t *testing.T) {
	tests := []struct {
		name string
		run  func(r *Resolver)
		op   string
	}{
		{
			name: "release before type",
			run:  func(r *Resolver) { r.ApplyRelease(testBookworm) },
			op:   "ApplyRelease",
		},
		{
			name: "type twice",
			run: func(r *Resolver) {
				r.ApplyType(dev)
				r.ApplyType(dev)
			},
			op: "ApplyType",
		},
		{
			name: "arch before vendor",
			run: func(r *Resolver) {
				r.ApplyType(dev)
				r.ApplyRelease(testBookworm)
				r.ApplyArch(testAmd64)
			},
			op: "ApplyArch",
		},
		{
			name: "finalize early",
			run: func(r *Resolver) {
				r.ApplyType(dev)
				r.Finalize()
			},
			op: "Finalize",
		},
		{
			name: "localdebs before version",
			run:  func(r *Resolver) { r.AddLocalDebs() },
			op:   "AddLocalDebs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				rec := recover()
				serr, ok := rec.(*SequenceError)
				if !ok {
					t.Fatalf("recovered %v, want *SequenceError", rec)
				}
				if serr.Op != tt.op {
					t.Fatalf("Op = %q, want %q", serr.Op, tt.op)
				}
				if !errdefs.IsFailedPrecondition(serr) {
					t.Fatal("sequence error is not classified as failed precondition")
				}
			}()
			tt.run(NewResolver(nil))
		})
	}
}

func TestResolverFinalizeTwice(t *testing.T) {
	r := NewResolver(nil)
	r.ApplyType(dev)
	r.ApplyRelease(testBookworm)
	r.ApplyVendor(testGeneric)
	r.ApplyArch(testAmd64)
	if err := r.ApplyVersion(1, mustDate(t, "2024-01-01"), "ab"); err != nil {
		t.Fatalf("ApplyVersion: %v", err)
	}
	r.Finalize()
	if r.State() != StateFinalized {
		t.Fatalf("State() = %s, want finalized", r.State())
	}

	defer func() {
		if _, ok := recover().(*SequenceError); !ok {
			t.Fatal("second Finalize did not panic with *SequenceError")
		}
	}()
	r.Finalize()
}

func TestResolverNegativeVersion(t *testing.T) {
	r := NewResolver(nil)
	r.ApplyType(dev)
	r.ApplyRelease(testBookworm)
	r.ApplyVendor(testGeneric)
	r.ApplyArch(testAmd64)

	err := r.ApplyVersion(-1, mustDate(t, "2024-01-01"), "ab")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if r.State() != StateArchApplied {
		t.Fatalf("State() = %s, want arch applied", r.State())
	}
}

func TestResolvedIsDetached(t *testing.T) {
	r := NewResolver(nil)
	r.ApplyType(dev)
	r.ApplyRelease(testBookworm)
	r.ApplyVendor(testGeneric)
	r.ApplyArch(testAmd64)
	if err := r.ApplyVersion(1, mustDate(t, "2024-01-01"), "ab"); err != nil {
		t.Fatalf("ApplyVersion: %v", err)
	}
	res := r.Finalize()

	res.Classes[0] = "MUTATED"
	res.Env["X"] = "y"
	if !r.classes.Contains(ClassDebian) {
		t.Fatal("resolved classes alias resolver storage")
	}
	if _, ok := r.env["X"]; ok {
		t.Fatal("resolved env aliases resolver storage")
	}
}

func TestResolvedDimensionsAreDetached(t *testing.T) {
	rel := testBookworm
	rel.Classes = slices.Clone(testBookworm.Classes)
	rel.ArchSupportsLinuxImageCloud = slices.Clone(testBookworm.ArchSupportsLinuxImageCloud)
	v := testAzure
	v.Classes = slices.Clone(testAzure.Classes)
	a := testAmd64
	a.Classes = slices.Clone(testAmd64.Classes)
	bt, err := ParseBuildType("dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := resolve(t, bt, rel, v, a, false)
	res.Type.Classes[0] = "MUTATED"
	res.Release.Classes[0] = "MUTATED"
	res.Release.ArchSupportsLinuxImageCloud[0] = "MUTATED"
	res.Vendor.Classes[0] = "MUTATED"
	res.Arch.Classes[0] = "MUTATED"

	if bt.Classes[0] != "TYPE_DEV" {
		t.Fatalf("build type classes = %v", bt.Classes)
	}
	if rel.Classes[0] != "BOOKWORM" || rel.ArchSupportsLinuxImageCloud[0] != "amd64" {
		t.Fatalf("release = %+v", rel)
	}
	if v.Classes[0] != "AZURE" {
		t.Fatalf("vendor classes = %v", v.Classes)
	}
	if a.Classes[0] != "AMD64" {
		t.Fatalf("arch classes = %v", a.Classes)
	}
	if dev.Classes[0] != "TYPE_DEV" {
		t.Fatalf("dev classes = %v", dev.Classes)
	}
}

func TestResolvedNameOverride(t *testing.T) {
	res := resolve(t, dev, testBookworm, testGeneric, testAmd64, false)
	name, err := res.Name("custom-{name}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "custom-{name}" {
		t.Fatalf("name = %q, want override verbatim", name)
	}
}

func TestResolvedEnviron(t *testing.T) {
	res := resolve(t, official, testBookworm, testAzure, testAmd64, false)

	env, err := res.Environ("img", "/out", "/data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env[EnvBuildName] != "img" || env[EnvBuildOutputDir] != "/out" || env[EnvBuildData] != "/data" {
		t.Fatalf("env = %v", env)
	}
	if env[EnvReleaseID] != "azure" {
		t.Fatalf("env[%s] = %q, want azure", EnvReleaseID, env[EnvReleaseID])
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(env[EnvBuildInfo]), &info); err != nil {
		t.Fatalf("CLOUD_BUILD_INFO is not JSON: %v", err)
	}
	if info["version"] != "20240501-42" {
		t.Fatalf("info[version] = %q", info["version"])
	}

	if _, ok := res.Env[EnvBuildName]; ok {
		t.Fatal("Environ mutated the resolved environment")
	}
}
