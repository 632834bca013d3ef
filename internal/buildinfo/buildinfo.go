// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X github.com/kidslabs/catalog/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// PrintBuildData writes the build metadata to w, one field per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
