package lanscan

// Version is the semantic version of the library.
const Version = "0.4.0"

// VersionInfo returns the version string with the library name.
func VersionInfo() string {
	return "go-lanscan v" + Version
}
