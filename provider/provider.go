// Package provider implements translation backends behind the gotdir.Host
// interface. Backends do the network I/O; decorators from the root package
// add tokens, retries, rate limiting, caching and suggestion following.
package provider

import "github.com/ZaguanLabs/gotdir"

// Host is an alias to the main package interface for convenience.
type Host = gotdir.Host

// TranslateRequest is an alias to the main package type.
type TranslateRequest = gotdir.TranslateRequest

// Result is an alias to the main package type.
type Result = gotdir.Result

// Names of the built-in backends, as accepted by settings and the CLI.
const (
	BackendOpenAI = "openai"
	BackendGoogle = "google"
	BackendMock   = "mock"
)
