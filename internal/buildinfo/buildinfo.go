// Package buildinfo holds version metadata injected at link time, e.g.
//
//	go build -ldflags "-X github.com/ZanzyTHEbar/mcp-wikidata-go/internal/buildinfo.Version=v1.2.3"
package buildinfo

var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
