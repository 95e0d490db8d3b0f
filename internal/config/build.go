package config

// Linker-injected build metadata, for example:
//
//	go build -ldflags "-X templeadmin/internal/config.version=1.2.3 \
//	    -X templeadmin/internal/config.commit=$(git rev-parse --short HEAD) \
//	    -X templeadmin/internal/config.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo returns the linker-injected build metadata.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}
