// Package buildinfo reports how the running binary was built, so that the
// provenance of an output matrix can be reconstructed from its log file.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Banner summarizes the module path, Go version, and VCS state of the
// running binary in one line.
func Banner() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "built without module build info"
	}

	commit, commitTime, modified := "unknown", "unknown", ""
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			commitTime = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = " (modified)"
			}
		}
	}

	return fmt.Sprintf("%s built with %s at commit %s%s, %s", bi.Path, bi.GoVersion, commit, modified, commitTime)
}
