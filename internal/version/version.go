// Package version holds build metadata, overridden with -ldflags "-X ...".
package version

var (
	AppName        = "slashkit"
	AppDescription = "Discord bot built from command and event descriptors"
	Version        = "dev"
	BuildDate      = ""
	GoVersion      = ""
)
