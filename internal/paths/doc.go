// Provides platform-appropriate paths for the image builder.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS. The program name "cloudimg" is used as the subdirectory under
// each base path.
package paths
