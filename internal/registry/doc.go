// Package registry loads the releases, vendors and architectures images can
// be built for.
//
// A registry is a YAML document with three maps keyed by name. The default
// registry is compiled into the binary; a different file can be selected in
// the tool settings.
//
// Example usage:
//
//	reg, err := registry.Load(path)
//	if err != nil {
//	    return err
//	}
//	vendor, err := reg.Vendor("azure")
package registry
