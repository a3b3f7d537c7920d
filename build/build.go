package build

// set via -ldflags at release time
var (
	Version   = "0.0.0-dev"
	GitCommit = "none"
	Timestamp = "unknown"
)
