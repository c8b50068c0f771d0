package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	programName = "cloudimg"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory holding user settings.
//
//	Linux:   $XDG_CONFIG_HOME/cloudimg or ~/.config/cloudimg
//	macOS:   ~/Library/Application Support/cloudimg
func Config() string {
	return filepath.Join(xdg.ConfigHome, programName)
}

// Default path to the settings file.
//
//	Linux:   $XDG_CONFIG_HOME/cloudimg/config.yaml
//	macOS:   ~/Library/Application Support/cloudimg/config.yaml
func Settings() string {
	return filepath.Join(Config(), "config.yaml")
}

// Path to the build data directory, exported to the builder.
//
// The directory holds the FAI config space and helper scripts.
//
//	Linux:   $XDG_DATA_HOME/cloudimg or ~/.local/share/cloudimg
//	macOS:   ~/Library/Application Support/cloudimg
func Data() string {
	return filepath.Join(xdg.DataHome, programName)
}

// Default path to the FAI config space inside a data directory.
func ConfigSpace(data string) string {
	return filepath.Join(data, "fai_config")
}
