// internal/version/version.go
package version

// Version is reported by --version.
const Version = "0.1.0"
