package cli

var version = "dev"

// SetVersionInfo sets the version reported by the version command and the MCP server
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
