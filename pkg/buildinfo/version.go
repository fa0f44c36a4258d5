// Package buildinfo carries the version stamped into the folio binary.
//
// A bare `go build` produces a "dev" binary; releases stamp the variables:
//
//	go build -ldflags "-X github.com/skovert/folio/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/skovert/folio/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/skovert/folio/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The CLI surfaces these through `folio --version`.
package buildinfo

import "fmt"

// Stamped at link time; see the package doc. The zero values mark an
// unstamped development build.
var (
	// Version is the release tag.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String renders the build information for logs and diagnostics.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template, so `folio --version` prints the
// commit and build date alongside the tag.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
