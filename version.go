package gotdir

// Name and Version identify gotdir in the CLI, cache snapshots and HTTP
// requests. Release builds set Version with
//
//	go build -ldflags "-X github.com/ZaguanLabs/gotdir.Version=1.0.0"
var (
	Name    = "gotdir"
	Version = "0.1.0"
)

// Set via ldflags by release builds.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns Version with the short commit appended when known,
// e.g. "0.1.0+1a2b3c4".
func FullVersion() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Version
	}
	short := GitCommit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

// UserAgent is the User-Agent header backends send, "gotdir/<version>".
func UserAgent() string {
	return Name + "/" + Version
}
