package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"

	"github.com/cruciblehq/cloudimg/internal/build"
	"github.com/cruciblehq/cloudimg/internal/paths"
)

// Prefix of environment variables overriding settings.
const envPrefix = "CLOUDIMG"

var ErrSettings = errors.New("invalid settings")

var (
	quietMode   atomic.Bool // Indicates whether quiet mode is enabled.
	debugMode   atomic.Bool // Indicates whether debug logging is enabled.
	verboseMode atomic.Bool // Indicates whether verbose logging is enabled.
)

// Parses the linker flags into usable runtime variables.
//
// The rawQuiet, rawDebug, and rawVerbose variables should be set via ldflags
// during the build process. If not set, they default to "false".
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Tool settings, read from the settings file and the environment.
//
// Each key can be overridden by an environment variable named after it,
// e.g. CLOUDIMG_FAI_SUDO for fai.sudo.
type Settings struct {
	Registry string      `mapstructure:"registry"` // Registry file. Empty uses the built-in registry.
	DataDir  string      `mapstructure:"data_dir"` // Build data directory.
	FAI      FAISettings `mapstructure:"fai"`
}

// Image builder settings.
type FAISettings struct {
	Command     string `mapstructure:"command"`
	Sudo        bool   `mapstructure:"sudo"`
	ConfigSpace string `mapstructure:"config_space"` // Empty uses the one in the data directory.
}

// Returns the builder options described by the settings.
func (s FAISettings) Options() build.FAIOptions {
	return build.FAIOptions{
		Command:     s.Command,
		Sudo:        s.Sudo,
		ConfigSpace: s.ConfigSpace,
	}
}

// Loads settings.
//
// When path is empty the default settings file is read if it exists. An
// explicit path must exist.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("registry", "")
	v.SetDefault("data_dir", paths.Data())
	v.SetDefault("fai.command", build.DefaultFAICommand)
	v.SetDefault("fai.sudo", false)
	v.SetDefault("fai.config_space", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(paths.Settings()); err == nil {
			path = paths.Settings()
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSettings, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettings, err)
	}

	return &s, nil
}
