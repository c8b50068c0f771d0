package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrBuilder             = errors.New("image builder failed")
	ErrPackage             = errors.New("packaging failed")
	ErrManifest            = errors.New("manifest creation failed")
)
