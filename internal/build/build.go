// Package build holds build-time information for the reqs binary.
package build

// Version and Commit are set with -ldflags "-X go.trai.ch/reqs/internal/build.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version, followed by the short commit when known.
func String() string {
	if Commit == "" {
		return Version
	}
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return Version + " (" + c + ")"
}
