// Package buildinfo exposes version metadata stamped at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/gophjournal/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/dmitrijs2005/gophjournal/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dmitrijs2005/gophjournal/internal/buildinfo.Date=$(date -u +%Y-%m-%d)"
//
// Values that were not stamped fall back to the module build info recorded
// by the Go toolchain, then to "N/A".
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	Version string
	Commit  string
	Date    string
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved build metadata.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get resolves the build metadata.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			}
		}
	}

	for _, v := range []*string{&info.Version, &info.Commit, &info.Date} {
		if *v == "" {
			*v = "N/A"
		}
	}
	return info
}

// PrintBuildData writes the build metadata to w, one field per line.
func PrintBuildData(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}
