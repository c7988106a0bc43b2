// Package buildinfo exposes version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/featuretable/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/featuretable/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/featuretable/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/featuretable
package buildinfo

import "fmt"

// Overridden via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the multi-line form printed by "featuretable --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Version + " (" + Commit + ", built " + Date + ")\n"
}

// Product returns "featuretable/<version>", used as the HTTP Server header.
func Product() string {
	return "featuretable/" + Version
}
