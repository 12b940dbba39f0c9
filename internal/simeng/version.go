package simeng

// Build-time variables set via -ldflags. For example:
//
//	go build -ldflags "-X github.com/satnetlab/satnet/internal/simeng.Version=v1.0.0"
var (
	Version   = "dev"
	GoVersion = "unknown"
	BuiltAt   = "unknown"
)
