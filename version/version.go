package version

// Version and Revision are overridden at build time via -ldflags.
var (
	Version  = "dev"
	Revision = "unknown"
)
