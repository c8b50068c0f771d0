// Package image resolves a declarative cloud image build request into the
// inputs of a class-driven image builder.
//
// A request has four independent dimensions (build type, release, vendor and
// architecture) plus a version, a version date and a build identifier. A
// [Resolver] applies them in a fixed order, accumulating build classes in a
// [ClassSet], an environment mapping and a metadata record. Finalizing the
// resolver selects the image variant class, appends the terminal class and
// returns an immutable [Resolved] configuration.
//
// Class order matters: the builder runs each class's customization in list
// order and later classes may override earlier ones.
//
// Example usage:
//
//	official, err := image.ParseBuildType("official")
//	if err != nil {
//	    return err
//	}
//	r := image.NewResolver(logger)
//	r.ApplyType(official)
//	r.ApplyRelease(release)
//	r.ApplyVendor(vendor)
//	r.ApplyArch(arch)
//	if err := r.ApplyVersion(42, date, id); err != nil {
//	    return err
//	}
//	resolved := r.Finalize()
//	name, err := resolved.Name("")
package image
