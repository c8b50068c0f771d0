// Package build hands a resolved image configuration to the external build
// steps.
//
// A build runs three steps strictly in sequence. The FAI builder writes the
// raw disk image using the resolved class list, the packager archives the
// raw image into a tar file and digests it, and the manifest step merges the
// builder's own manifest with the build metadata and the archive digest.
// Each step needs the output of the one before it, so the first failure
// stops the build.
//
// Commands are run through a runtime.Runner. With a noop runner the builder
// command is printed, the packager and manifest steps only log what they
// would write, and no archive digest is produced.
//
// Example usage:
//
//	result, err := build.Run(ctx, build.Options{
//	    Resolved: resolved,
//	    Name:     name,
//	    Output:   "out",
//	    DataDir:  paths.Data(),
//	    Runner:   runtime.NewHost(os.Stdout, os.Stderr),
//	})
//	if err != nil {
//	    return err
//	}
package build
