package version

// Version is stamped at build time, e.g.
// go build -ldflags "-X github.com/castinghq/casting/pkg/version.Version=1.2.0".
var Version = "dev"
